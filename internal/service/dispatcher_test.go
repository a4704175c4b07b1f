package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.Hospital{},
		&entity.Donor{},
		&entity.BloodRequest{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type recordingNotifier struct {
	mu           sync.Mutex
	instructions []Instruction
}

func (n *recordingNotifier) Enqueue(_ context.Context, instruction Instruction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.instructions = append(n.instructions, instruction)
	return nil
}

func (n *recordingNotifier) byChannel(channel string) []Instruction {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Instruction
	for _, inst := range n.instructions {
		if inst.Channel == channel {
			out = append(out, inst)
		}
	}
	return out
}

func TestDispatchCriticalCapsFanout(t *testing.T) {
	db := openTestDB(t)
	notifier := &recordingNotifier{}
	dispatcher := NewAlertDispatcher(db, testLogger(), repository.NewDonorRepository(), notifier)

	linked := uuid.New()
	for i := 0; i < 7; i++ {
		donor := &entity.Donor{
			Name:      fmt.Sprintf("Donor %d", i),
			BloodType: "O-",
			Phone:     fmt.Sprintf("+62811%04d", i),
			City:      "Jakarta",
			Available: true,
		}
		if i == 1 {
			donor.UserID = &linked
		}
		require.NoError(t, db.Create(donor).Error)
	}
	// Wrong type and unavailable donors never enter the candidate set
	require.NoError(t, db.Create(&entity.Donor{
		Name: "WrongType", BloodType: "A+", Phone: "+62812", City: "Jakarta", Available: true,
	}).Error)
	require.NoError(t, db.Create(&entity.Donor{
		Name: "Unavailable", BloodType: "O-", Phone: "+62813", City: "Jakarta", Available: false,
	}).Error)

	patientName := "Budi"
	contact := "+628199"
	request := &entity.BloodRequest{
		ID:           1,
		BloodType:    "O-",
		PatientName:  &patientName,
		ContactPhone: &contact,
		Hospital:     &entity.Hospital{Name: "RS Cipto"},
	}

	dispatcher.DispatchCritical(context.Background(), request)

	messages := notifier.byChannel(ChannelMessage)
	require.Len(t, messages, 5)

	want := "CRITICAL BLOOD ALERT: O- needed at RS Cipto URGENTLY. Patient: Budi. Contact: +628199"
	for _, msg := range messages {
		assert.Equal(t, want, msg.Payload)
	}

	pushes := notifier.byChannel(ChannelPush)
	require.Len(t, pushes, 1)
	assert.Equal(t, linked.String(), pushes[0].Destination)
	assert.Equal(t, want, pushes[0].Payload)
}

func TestDispatchCriticalPayloadFallbacks(t *testing.T) {
	db := openTestDB(t)
	notifier := &recordingNotifier{}
	dispatcher := NewAlertDispatcher(db, testLogger(), repository.NewDonorRepository(), notifier)

	require.NoError(t, db.Create(&entity.Donor{
		Name: "Sari", BloodType: "AB+", Phone: "+62811", City: "Jakarta", Available: true,
	}).Error)

	dispatcher.DispatchCritical(context.Background(), &entity.BloodRequest{
		ID:        2,
		BloodType: "AB+",
	})

	messages := notifier.byChannel(ChannelMessage)
	require.Len(t, messages, 1)
	assert.Equal(t,
		"CRITICAL BLOOD ALERT: AB+ needed at the requesting facility URGENTLY. Patient: unknown. Contact: n/a",
		messages[0].Payload)
}

func TestRedisNotifierRoutesByChannel(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	notifier := NewRedisNotifier(client, testLogger())
	ctx := context.Background()

	require.NoError(t, notifier.Enqueue(ctx, Instruction{
		Channel: ChannelMessage, Destination: "+62811", Payload: "hello",
	}))
	require.NoError(t, notifier.Enqueue(ctx, Instruction{
		Channel: ChannelPush, Destination: "user-1", Payload: "hello",
	}))

	messages, err := srv.List(MessageQueueKey)
	require.NoError(t, err)
	require.Len(t, messages, 1)

	var inst Instruction
	require.NoError(t, json.Unmarshal([]byte(messages[0]), &inst))
	assert.Equal(t, "+62811", inst.Destination)

	pushes, err := srv.List(PushQueueKey)
	require.NoError(t, err)
	require.Len(t, pushes, 1)
}
