package entity

// BloodType is an ABO/Rh blood group. Matching is exact: no ABO
// substitution rules are applied anywhere in the system.
type BloodType string

const (
	BloodAPositive  BloodType = "A+"
	BloodANegative  BloodType = "A-"
	BloodBPositive  BloodType = "B+"
	BloodBNegative  BloodType = "B-"
	BloodABPositive BloodType = "AB+"
	BloodABNegative BloodType = "AB-"
	BloodOPositive  BloodType = "O+"
	BloodONegative  BloodType = "O-"
)

// BloodTypes lists every recognized blood type, in the order used when
// seeding a new bank's inventory rows.
var BloodTypes = []BloodType{
	BloodAPositive, BloodANegative,
	BloodBPositive, BloodBNegative,
	BloodABPositive, BloodABNegative,
	BloodOPositive, BloodONegative,
}

// IsValid reports whether b is a recognized blood type
func (b BloodType) IsValid() bool {
	for _, t := range BloodTypes {
		if b == t {
			return true
		}
	}
	return false
}
