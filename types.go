package heap

// TrackRequest is the JSON body sent to PathTrack.
// Optional fields are omitted from the body when unset. An empty but present
// property bag is sent as {}.
type TrackRequest struct {
	AppID          string     `json:"app_id"`
	Identity       string     `json:"identity"`
	Event          string     `json:"event"`
	Properties     Properties `json:"properties,omitzero"`
	Timestamp      *string    `json:"timestamp,omitempty"`
	IdempotencyKey *string    `json:"idempotency_key,omitempty"`
}

// UserPropertiesRequest is the JSON body sent to PathAddUserProperties.
type UserPropertiesRequest struct {
	AppID      string     `json:"app_id"`
	Identity   string     `json:"identity"`
	Properties Properties `json:"properties"`
}
