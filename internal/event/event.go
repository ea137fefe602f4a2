package event

type Type string

const (
	TypeUserSignedUp       Type = "user.signed_up"
	TypeUserLoggedIn       Type = "user.logged_in"
	TypeFileUploaded       Type = "file.uploaded"
	TypeDownloadLinkIssued Type = "download.link_issued"
	TypeDownloadConsumed   Type = "download.consumed"
	TypeDownloadRejected   Type = "download.rejected"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload,omitempty"`
	Timestamp string `json:"timestamp"`
	ActorID   string `json:"actor_id,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
