package notification

import (
	"encoding/json"
	"fmt"

	"github.com/olahol/melody"
)

// SessionUserKey là key lưu userID trên mỗi session websocket
const SessionUserKey = "user_id"

// Service định nghĩa kênh thông báo thời gian thực tới cư dân
type Service interface {
	SendToUser(userID uint, message string) error
	Broadcast(message string) error
}

// MelodyService implement Service trên melody websocket
type MelodyService struct {
	m *melody.Melody
}

func NewMelodyService(m *melody.Melody) *MelodyService {
	return &MelodyService{m: m}
}

func (s *MelodyService) Broadcast(message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.Broadcast([]byte(message))
}

// SendToUser gửi message tới các session websocket đã đăng nhập của một user
func (s *MelodyService) SendToUser(userID uint, message string) error {
	if s.m == nil {
		return fmt.Errorf("melody instance is nil")
	}
	return s.m.BroadcastFilter([]byte(message), func(sess *melody.Session) bool {
		v, ok := sess.Get(SessionUserKey)
		if !ok {
			return false
		}
		id, ok := v.(uint)
		return ok && id == userID
	})
}

// MessageBuilder dựng payload thông báo số hóa đơn quá hạn cho cư dân
type MessageBuilder struct {
	userID uint
	count  int
}

func NewMessageBuilder(userID uint, count int) *MessageBuilder {
	return &MessageBuilder{
		userID: userID,
		count:  count,
	}
}

func (b *MessageBuilder) Build() string {
	payload, _ := json.Marshal(map[string]interface{}{
		"message": "new_request",
		"userId":  b.userID,
		"count":   b.count,
	})
	return string(payload)
}
