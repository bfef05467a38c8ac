package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newWsRouter(fake *fakeStorage, viewerID uint) *gin.Engine {
	r, h := newTestRouter(fake, viewerID)
	identity := func(c *gin.Context) { c.Set(contextUserID, viewerID) }
	r.GET("/api/chat/:peerID/ws", identity, h.ServeChat)
	return r
}

func TestServeChat_RejectedWithoutMutualConsent(t *testing.T) {
	fake := &fakeStorage{likes: map[[2]uint]bool{
		{1, 2}: true, // one-sided
	}}
	r := newWsRouter(fake, 1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/2/ws", nil))

	assert.Equal(t, http.StatusForbidden, w.Code, "no room may come into existence without consent")
}

func TestServeChat_SelfChatRejected(t *testing.T) {
	r := newWsRouter(&fakeStorage{}, 1)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/1/ws", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServeChat_ConsentPresentProceedsToUpgrade(t *testing.T) {
	fake := &fakeStorage{likes: map[[2]uint]bool{
		{1, 2}: true,
		{2, 1}: true,
	}}
	r := newWsRouter(fake, 1)

	// A plain HTTP request passes the gate but fails the websocket
	// handshake, which is the upgrader's 400, not our 403.
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/chat/2/ws", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
