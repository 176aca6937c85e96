package entity

import (
	"strconv"

	"github.com/google/uuid"
)

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание фото
	StateProcessing    UserState = "processing"     // Идёт распознавание
)

// User представляет пользователя бота
type User struct {
	ID                int64     // Telegram User ID
	ChatID            int64     // Telegram Chat ID
	State             UserState // Текущее состояние пользователя
	LastRecognitionID uuid.UUID // Последнее распознавание (uuid.Nil если не было)
	RecognitionCount  int       // Сколько раз пользователь отправлял фото
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// CallerID непрозрачный идентификатор вызывающего для ядра распознавания
func (u *User) CallerID() string {
	return "tg:" + strconv.FormatInt(u.ID, 10)
}

// RecordRecognition запоминает результат и возвращает пользователя в меню
func (u *User) RecordRecognition(id uuid.UUID) {
	u.LastRecognitionID = id
	u.RecognitionCount++
	u.State = StateMainMenu
}
