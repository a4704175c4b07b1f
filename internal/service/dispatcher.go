package service

import (
	"context"
	"encoding/json"
	"fmt"

	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notification channels
const (
	ChannelMessage = "message"
	ChannelPush    = "push"
)

// Redis outbox queues consumed by the external delivery collaborator,
// which owns retries and delivery guarantees.
const (
	MessageQueueKey = "notify:message"
	PushQueueKey    = "notify:push"
)

// Instruction is one notification order handed to the delivery collaborator
type Instruction struct {
	Channel     string `json:"channel"`
	Destination string `json:"destination"`
	Payload     string `json:"payload"`
}

// Notifier hands notification instructions to the delivery collaborator
type Notifier interface {
	Enqueue(ctx context.Context, instruction Instruction) error
}

type redisNotifier struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisNotifier(client *redis.Client, log *logrus.Logger) Notifier {
	return &redisNotifier{
		client: client,
		log:    log,
	}
}

func (n *redisNotifier) Enqueue(ctx context.Context, instruction Instruction) error {
	body, err := json.Marshal(instruction)
	if err != nil {
		return err
	}

	queue := MessageQueueKey
	if instruction.Channel == ChannelPush {
		queue = PushQueueKey
	}

	return n.client.LPush(ctx, queue, body).Err()
}

// maxAlertedDonors caps the fanout of one critical alert
const maxAlertedDonors = 5

// AlertDispatcher computes the eligible donor set for a critical request and
// produces notification instructions. Fire-and-forget: it does not retry
// failed deliveries and does not guarantee any donor responds; the request
// stays pending until a human marks it fulfilled.
type AlertDispatcher struct {
	db        *gorm.DB
	log       *logrus.Logger
	donorRepo repository.DonorRepository
	notifier  Notifier
}

func NewAlertDispatcher(db *gorm.DB, log *logrus.Logger, donorRepo repository.DonorRepository, notifier Notifier) *AlertDispatcher {
	return &AlertDispatcher{
		db:        db,
		log:       log,
		donorRepo: donorRepo,
		notifier:  notifier,
	}
}

// DispatchCritical alerts the top candidates for a critical request: one
// message instruction per donor, plus one push instruction when the donor has
// a linked user identity. Matching is exact blood type only, no ABO/Rh
// compatibility substitution.
func (d *AlertDispatcher) DispatchCritical(ctx context.Context, request *entity.BloodRequest) {
	donors, err := d.donorRepo.FindAvailableByType(d.db.WithContext(ctx), request.BloodType)
	if err != nil {
		d.log.Warnf("Failed to find donors for critical request %d: %+v", request.ID, err)
		return
	}

	// Full candidate count is the observability signal, independent of how
	// many donors are actually notified
	d.log.Infof("Critical request %d: %d potential donors found", request.ID, len(donors))

	top := donors
	if len(top) > maxAlertedDonors {
		top = top[:maxAlertedDonors]
	}

	payload := d.buildAlertPayload(request)

	for i := range top {
		donor := &top[i]

		if err := d.notifier.Enqueue(ctx, Instruction{
			Channel:     ChannelMessage,
			Destination: donor.Phone,
			Payload:     payload,
		}); err != nil {
			d.log.Warnf("Failed to enqueue message alert for donor %d: %+v", donor.ID, err)
		}

		if donor.UserID != nil {
			if err := d.notifier.Enqueue(ctx, Instruction{
				Channel:     ChannelPush,
				Destination: donor.UserID.String(),
				Payload:     payload,
			}); err != nil {
				d.log.Warnf("Failed to enqueue push alert for donor %d: %+v", donor.ID, err)
			}
		}
	}
}

func (d *AlertDispatcher) buildAlertPayload(request *entity.BloodRequest) string {
	location := "the requesting facility"
	if request.Hospital != nil {
		location = request.Hospital.Name
	} else if request.HospitalID != nil {
		location = fmt.Sprintf("hospital #%d", *request.HospitalID)
	}

	patient := "unknown"
	if request.PatientName != nil && *request.PatientName != "" {
		patient = *request.PatientName
	}

	contact := "n/a"
	if request.ContactPhone != nil && *request.ContactPhone != "" {
		contact = *request.ContactPhone
	}

	return fmt.Sprintf(
		"CRITICAL BLOOD ALERT: %s needed at %s URGENTLY. Patient: %s. Contact: %s",
		request.BloodType, location, patient, contact,
	)
}
