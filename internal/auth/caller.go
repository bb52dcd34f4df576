package auth

import "kandu_backend/internal/models"

// Caller - кто выполняет операцию. Передаётся явно в каждый метод сервиса,
// глобального "текущего пользователя" нет.
type Caller struct {
	UserID   string
	UserType models.UserType
}

func (c Caller) IsAdmin() bool    { return c.UserType == models.UserTypeAdmin }
func (c Caller) IsWorker() bool   { return c.UserType == models.UserTypeWorker }
func (c Caller) IsEmployer() bool { return c.UserType == models.UserTypeEmployer }

// HasType - тип аккаунта входит в перечень
func (c Caller) HasType(types ...models.UserType) bool {
	for _, t := range types {
		if c.UserType == t {
			return true
		}
	}
	return false
}
