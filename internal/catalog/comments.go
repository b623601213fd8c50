package catalog

import (
	"time"

	"github.com/pkg/errors"

	"github.com/hritikarora28/AppstoreBackend/internal/models"
)

// CommentRecord is a comment annotated with its author's display name.
type CommentRecord struct {
	ID        string    `json:"id"`
	App       string    `json:"app"`
	User      uint      `json:"user"`
	Username  string    `json:"username"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddComment attaches a comment by the caller to an app. The app must
// exist; orphaned comments are rejected with NotFound.
func (s *Store) AddComment(caller Identity, appID, body string) (*CommentRecord, error) {
	if appID == "" {
		return nil, invalidf("appId required")
	}
	if body == "" {
		return nil, invalidf("comment required")
	}
	if _, err := s.load(appID); err != nil {
		return nil, err
	}
	c := models.Comment{AppID: appID, UserID: caller.UserID, Body: body}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, errors.Wrap(err, "create comment")
	}
	return &CommentRecord{
		ID:        c.ID,
		App:       c.AppID,
		User:      c.UserID,
		Username:  caller.Username,
		Comment:   c.Body,
		CreatedAt: c.CreatedAt,
	}, nil
}

// ListComments returns all comments for an app in store-default order,
// each resolved against its author's username.
func (s *Store) ListComments(appID string) ([]CommentRecord, error) {
	var comments []models.Comment
	err := s.db.Preload("User").Where("app_id = ?", appID).Find(&comments).Error
	if err != nil {
		return nil, errors.Wrap(err, "list comments")
	}
	out := make([]CommentRecord, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentRecord{
			ID:        c.ID,
			App:       c.AppID,
			User:      c.UserID,
			Username:  c.User.Username,
			Comment:   c.Body,
			CreatedAt: c.CreatedAt,
		})
	}
	return out, nil
}
