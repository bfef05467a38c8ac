package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"pairwave/backend/internal/consent"
	"pairwave/backend/internal/models"
	"pairwave/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStorage struct {
	storage.Storage

	sinceResult []models.Message
	sinceCalled struct {
		a, b      uint
		watermark time.Time
	}

	likes map[[2]uint]bool
}

func (f *fakeStorage) GetMessagesSince(a, b uint, watermark time.Time) ([]models.Message, error) {
	f.sinceCalled.a, f.sinceCalled.b, f.sinceCalled.watermark = a, b, watermark
	return f.sinceResult, nil
}

func (f *fakeStorage) CreateLike(from, to uint) (bool, error) {
	key := [2]uint{from, to}
	if f.likes == nil {
		f.likes = make(map[[2]uint]bool)
	}
	if f.likes[key] {
		return false, nil
	}
	f.likes[key] = true
	return true, nil
}

func (f *fakeStorage) MutualLikeExists(a, b uint) (bool, error) {
	return f.likes[[2]uint{a, b}] && f.likes[[2]uint{b, a}], nil
}

func (f *fakeStorage) GetLikerIDs(userID uint) ([]uint, error) {
	var likers []uint
	for pair := range f.likes {
		if pair[1] == userID {
			likers = append(likers, pair[0])
		}
	}
	return likers, nil
}

type noopNotifier struct{}

func (noopNotifier) NewInterest(recipient, sender uint) {}

func newTestRouter(fake *fakeStorage, viewerID uint) (*gin.Engine, *Handler) {
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	h := &Handler{
		Gate:    consent.NewGate(fake, noopNotifier{}, log),
		Storage: fake,
		Log:     log,
	}

	r := gin.New()
	identity := func(c *gin.Context) { c.Set(contextUserID, viewerID) }
	r.GET("/api/chat/:peerID/updates/:lastTimestamp", identity, h.GetNewMessages)
	r.POST("/api/likes/:peerID", identity, h.AddLike)
	r.GET("/api/likes/received", identity, h.GetLikesReceived)
	return r, h
}

func TestParseWatermark(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"utc suffix", "2025-03-08T14:30:00Z", false},
		{"explicit offset", "2025-03-08T14:30:00+00:00", false},
		{"fractional seconds", "2025-03-08T14:30:00.123456Z", false},
		{"positive offset", "2025-03-08T17:30:00+03:00", false},
		{"garbage", "yesterday", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWatermark(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.False(t, got.IsZero())
		})
	}
}

func TestParseWatermark_ZMeansUTC(t *testing.T) {
	withZ, err := ParseWatermark("2025-03-08T14:30:00Z")
	require.NoError(t, err)
	withOffset, err := ParseWatermark("2025-03-08T14:30:00+00:00")
	require.NoError(t, err)
	assert.True(t, withZ.Equal(withOffset))
}

func TestGetNewMessages_ReturnsMessagesAndAdvancesWatermark(t *testing.T) {
	newest := time.Date(2025, 3, 8, 14, 35, 2, 0, time.Local)
	fake := &fakeStorage{sinceResult: []models.Message{
		{ID: 10, SenderID: 2, ReceiverID: 1, Content: "привет", CreatedAt: time.Date(2025, 3, 8, 14, 31, 0, 0, time.Local)},
		{ID: 11, SenderID: 1, ReceiverID: 2, Content: "и тебе", CreatedAt: newest},
	}}
	r, _ := newTestRouter(fake, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/2/updates/2025-03-08T14:30:00Z", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages []struct {
			SenderID  uint   `json:"sender_id"`
			Content   string `json:"content"`
			Timestamp string `json:"timestamp"`
		} `json:"messages"`
		LastTimestamp string `json:"last_timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	require.Len(t, resp.Messages, 2)
	assert.Equal(t, uint(2), resp.Messages[0].SenderID)
	assert.Equal(t, "привет", resp.Messages[0].Content)
	assert.Equal(t, "14:31", resp.Messages[0].Timestamp)
	assert.Equal(t, newest.Format(time.RFC3339Nano), resp.LastTimestamp)

	assert.Equal(t, uint(1), fake.sinceCalled.a)
	assert.Equal(t, uint(2), fake.sinceCalled.b)
}

func TestGetNewMessages_UpToDateWatermarkIsUnchanged(t *testing.T) {
	fake := &fakeStorage{sinceResult: []models.Message{}}
	r, _ := newTestRouter(fake, 1)

	raw := "2025-03-08T14:35:02Z"
	req := httptest.NewRequest(http.MethodGet, "/api/chat/2/updates/"+raw, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Messages      []json.RawMessage `json:"messages"`
		LastTimestamp string            `json:"last_timestamp"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Messages)
	assert.Equal(t, raw, resp.LastTimestamp, "watermark must never regress")
}

func TestGetNewMessages_RejectsBadWatermark(t *testing.T) {
	r, _ := newTestRouter(&fakeStorage{}, 1)

	req := httptest.NewRequest(http.MethodGet, "/api/chat/2/updates/not-a-timestamp", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddLike_CreatedOnceThenNoOp(t *testing.T) {
	fake := &fakeStorage{}
	r, _ := newTestRouter(fake, 1)

	var resp struct {
		Created bool `json:"created"`
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/likes/2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Created)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/likes/2", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Created)
}

func TestAddLike_SelfLikeRejected(t *testing.T) {
	r, _ := newTestRouter(&fakeStorage{}, 1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/likes/1", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLikesReceived_ListsLikers(t *testing.T) {
	fake := &fakeStorage{likes: map[[2]uint]bool{
		{2, 1}: true,
		{3, 1}: true,
		{1, 2}: true, // outgoing, must not show up
	}}
	r, _ := newTestRouter(fake, 1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/likes/received", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		LikerIDs []uint `json:"liker_ids"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []uint{2, 3}, resp.LikerIDs)
}
