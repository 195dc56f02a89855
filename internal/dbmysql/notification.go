package dbmysql

import "time"

type Notification struct {
	ID        string    `gorm:"primaryKey;size:36;column:id"`
	UserID    int64     `gorm:"not null;index;column:user_id"`
	Message   string    `gorm:"not null;type:text;column:message"`
	IsRead    bool      `gorm:"default:false;column:is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime;column:created_at"`
}
