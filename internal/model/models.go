package model

// All returns every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Team{},
		&Project{},
		&Task{},
		&Goal{},
		&Notification{},
		&Message{},
	}
}
