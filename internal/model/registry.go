package model

// All lists every table owned by the service, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Profile{},
		&Bucket{},
		&Source{},
		&Conversation{},
		&Message{},
		&VoiceConfig{},
	}
}
