package dto

type AuditEntryDTO struct {
	ID         string      `json:"id"`
	ActorID    int         `json:"actor_id"`
	Action     string      `json:"action"`
	EntityType string      `json:"entity_type"`
	EntityID   uint64      `json:"entity_id"`
	Changes    interface{} `json:"changes"`
	SourceIP   string      `json:"source_ip,omitempty"`
	UserAgent  string      `json:"user_agent,omitempty"`
	CreatedAt  string      `json:"created_at"`
}
