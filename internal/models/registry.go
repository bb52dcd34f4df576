package models

// All - все сущности в порядке создания таблиц
func All() []any {
	return []any{
		&User{},
		&Job{},
		&Application{},
		&ChatMessage{},
		&Notification{},
		&Rating{},
		&Blacklist{},
	}
}
