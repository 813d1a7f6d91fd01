package handler

import (
	"net/http"

	"media-share/internal/ledger"
	"media-share/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// InteractHandler serves the async view/like endpoints. These return JSON,
// not redirects, since the client calls them from page scripts.
type InteractHandler struct {
	Ledger *ledger.Ledger
}

func NewInteractHandler(l *ledger.Ledger) *InteractHandler {
	return &InteractHandler{Ledger: l}
}

// View counts a view once per session and returns the fresh total.
func (h *InteractHandler) View(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	sess := session.FromContext(c)
	views, err := h.Ledger.RecordView(sess.ID, sess.UserID, id)
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record view"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"views": views})
}

// Like counts a like once per session; a repeat is rejected as a structured
// error, never retried.
func (h *InteractHandler) Like(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}

	sess := session.FromContext(c)
	actor := sess.Username
	if actor == "" {
		actor = sess.ID // anonymous session
	}

	likes, err := h.Ledger.RecordLike(sess.ID, actor, id)
	switch err {
	case nil:
		c.JSON(http.StatusOK, gin.H{"likes": likes})
	case ledger.ErrAlreadyLiked:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Already liked"})
	case gorm.ErrRecordNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not record like"})
	}
}
