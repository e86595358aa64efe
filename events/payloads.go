package events

import "github.com/barefootnomad/api/models"

// CommentEvent is the new_comment payload: the stored comment plus the
// id of the user who wrote it.
type CommentEvent struct {
	models.Comment
	From uint `json:"from"`
}

// RequestStatusEvent is published when a manager approves or rejects a
// travel request.
type RequestStatusEvent struct {
	Request   models.Request       `json:"request"`
	Status    models.RequestStatus `json:"status"`
	ManagerID uint                 `json:"manager_id"`
}
