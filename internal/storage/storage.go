package storage

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pairwave/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("storage: record not found")

type Storage interface {
	SaveUser(user *models.User) error
	GetUserByID(id uint) (*models.User, error)

	CreateLike(from, to uint) (bool, error)
	MutualLikeExists(a, b uint) (bool, error)
	GetLikerIDs(userID uint) ([]uint, error)

	SaveMessage(msg *models.Message) error
	GetConversation(a, b uint) ([]models.Message, error)
	GetMessagesSince(a, b uint, watermark time.Time) ([]models.Message, error)
	MarkConversationRead(viewer, peer uint) error
	GetInterlocutorIDs(userID uint) ([]uint, error)

	SaveNotification(n *models.Notification) error
	ListNotifications(recipient uint) ([]models.Notification, error)
	MarkNotificationsRead(recipient uint) error

	PublishRoomEvent(roomID string, ev models.DeliveryEvent) error
	SubscribeRoomEvents(pattern string) *redis.PubSub
}

// Service is the PostgreSQL + Redis implementation of Storage. Postgres
// owns everything durable; Redis only carries the pub/sub fan-out between
// instances.
type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
	Log   *zap.Logger
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client, log *zap.Logger) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
		Log:   log,
	}
}

func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

func (s *Service) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateLike inserts the directed interest edge if it does not exist yet.
// The insert races safely: idx_like_pair is unique, so a concurrent
// duplicate resolves to DO NOTHING instead of a second row. Returns whether
// the edge was newly created.
func (s *Service) CreateLike(from, to uint) (bool, error) {
	like := models.Like{UserFromID: from, UserToID: to}
	result := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_from_id"}, {Name: "user_to_id"}},
		DoNothing: true,
	}).Create(&like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MutualLikeExists reports whether both directed edges are present. One
// indexed query over the pair in either direction keeps this cheap enough
// to run on every connect attempt.
func (s *Service) MutualLikeExists(a, b uint) (bool, error) {
	var count int64
	err := s.DB.Model(&models.Like{}).
		Where("(user_from_id = ? AND user_to_id = ?) OR (user_from_id = ? AND user_to_id = ?)", a, b, b, a).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count == 2, nil
}

// GetLikerIDs lists everyone who has expressed interest in the given user,
// newest first.
func (s *Service) GetLikerIDs(userID uint) ([]uint, error) {
	var likers []uint
	err := s.DB.Model(&models.Like{}).
		Where("user_to_id = ?", userID).
		Order("created_at desc").
		Pluck("user_from_id", &likers).Error
	if err != nil {
		return nil, err
	}
	return likers, nil
}

// SaveMessage appends one message. Create is a single INSERT, so a write
// either lands whole or not at all; ID and CreatedAt come back filled in.
func (s *Service) SaveMessage(msg *models.Message) error {
	if err := s.DB.Create(msg).Error; err != nil {
		s.Log.Error("failed to save message",
			zap.Uint("sender_id", msg.SenderID),
			zap.Uint("receiver_id", msg.ReceiverID),
			zap.Error(err))
		return err
	}
	return nil
}

func conversationScope(a, b uint) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a)
	}
}

// GetConversation returns every message between a and b in conversation
// order.
func (s *Service) GetConversation(a, b uint) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.Scopes(conversationScope(a, b)).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// GetMessagesSince returns the messages between a and b strictly newer than
// the watermark, oldest first. An up-to-date watermark yields an empty
// slice, which callers treat as "watermark unchanged".
func (s *Service) GetMessagesSince(a, b uint, watermark time.Time) ([]models.Message, error) {
	var msgs []models.Message
	err := s.DB.Scopes(conversationScope(a, b)).
		Where("created_at > ?", watermark).
		Order("created_at asc, id asc").
		Find(&msgs).Error
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

// MarkConversationRead flags everything the peer sent to the viewer as read.
func (s *Service) MarkConversationRead(viewer, peer uint) error {
	return s.DB.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", peer, viewer, false).
		Update("is_read", true).Error
}

// GetInterlocutorIDs lists every user the given user has exchanged at least
// one message with, for the inbox screen.
func (s *Service) GetInterlocutorIDs(userID uint) ([]uint, error) {
	var sentTo []uint
	if err := s.DB.Model(&models.Message{}).
		Where("sender_id = ?", userID).
		Distinct().Pluck("receiver_id", &sentTo).Error; err != nil {
		return nil, err
	}

	var receivedFrom []uint
	if err := s.DB.Model(&models.Message{}).
		Where("receiver_id = ?", userID).
		Distinct().Pluck("sender_id", &receivedFrom).Error; err != nil {
		return nil, err
	}

	return lo.Uniq(append(sentTo, receivedFrom...)), nil
}

func (s *Service) SaveNotification(n *models.Notification) error {
	return s.DB.Create(n).Error
}

func (s *Service) ListNotifications(recipient uint) ([]models.Notification, error) {
	var notes []models.Notification
	err := s.DB.Where("recipient_id = ?", recipient).
		Order("created_at desc").
		Find(&notes).Error
	if err != nil {
		return nil, err
	}
	return notes, nil
}

func (s *Service) MarkNotificationsRead(recipient uint) error {
	return s.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipient, false).
		Update("is_read", true).Error
}

// PublishRoomEvent pushes a delivery event into the room's Redis channel.
// The channel name is the canonical room id, so every instance that has a
// session in the room picks it up.
func (s *Service) PublishRoomEvent(roomID string, ev models.DeliveryEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, roomID, payload).Err()
}

// SubscribeRoomEvents subscribes to every room channel matching the pattern.
func (s *Service) SubscribeRoomEvents(pattern string) *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, pattern)
}
