package chathub_test

import (
	"fmt"
	"time"

	"pairwave/backend/internal/chathub"
	"pairwave/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) CreateLike(from, to uint) (bool, error) {
	args := m.Called(from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) MutualLikeExists(a, b uint) (bool, error) {
	args := m.Called(a, b)
	return args.Bool(0), args.Error(1)
}

func (m *MockStorage) GetLikerIDs(userID uint) ([]uint, error) {
	args := m.Called(userID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockStorage) SaveMessage(msg *models.Message) error {
	args := m.Called(msg)
	return args.Error(0)
}

func (m *MockStorage) GetConversation(a, b uint) ([]models.Message, error) {
	args := m.Called(a, b)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) GetMessagesSince(a, b uint, watermark time.Time) ([]models.Message, error) {
	args := m.Called(a, b, watermark)
	return args.Get(0).([]models.Message), args.Error(1)
}

func (m *MockStorage) MarkConversationRead(viewer, peer uint) error {
	args := m.Called(viewer, peer)
	return args.Error(0)
}

func (m *MockStorage) GetInterlocutorIDs(userID uint) ([]uint, error) {
	args := m.Called(userID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockStorage) SaveNotification(n *models.Notification) error {
	args := m.Called(n)
	return args.Error(0)
}

func (m *MockStorage) ListNotifications(recipient uint) ([]models.Notification, error) {
	args := m.Called(recipient)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *MockStorage) MarkNotificationsRead(recipient uint) error {
	args := m.Called(recipient)
	return args.Error(0)
}

func (m *MockStorage) PublishRoomEvent(roomID string, ev models.DeliveryEvent) error {
	args := m.Called(roomID, ev)
	return args.Error(0)
}

func (m *MockStorage) SubscribeRoomEvents(pattern string) *redis.PubSub {
	args := m.Called(pattern)
	return args.Get(0).(*redis.PubSub)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NewMessage(recipient, sender uint) {
	m.Called(recipient, sender)
}

// MockClient is a Client backed by plain channels instead of a websocket.
type MockClient struct {
	userID    uint
	peerID    uint
	roomID    string
	sessionID string
	closed    bool

	RecvChannel chan models.DeliveryEvent
}

func newMockClient(userID, peerID uint, buffer int) *MockClient {
	return &MockClient{
		userID:      userID,
		peerID:      peerID,
		roomID:      chathub.RoomID(userID, peerID),
		sessionID:   fmt.Sprintf("session-%d-%d", userID, peerID),
		RecvChannel: make(chan models.DeliveryEvent, buffer),
	}
}

func (c *MockClient) GetUserID() uint      { return c.userID }
func (c *MockClient) GetPeerID() uint      { return c.peerID }
func (c *MockClient) GetRoomID() string    { return c.roomID }
func (c *MockClient) GetSessionID() string { return c.sessionID }

func (c *MockClient) GetSendChannel() chan<- models.DeliveryEvent { return c.RecvChannel }

func (c *MockClient) Run() {}

func (c *MockClient) Close() { c.closed = true }
