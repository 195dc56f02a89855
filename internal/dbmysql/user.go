package dbmysql

import "time"

type User struct {
	ID           int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username     string    `gorm:"uniqueIndex;size:30;not null;column:username"`
	Email        string    `gorm:"index;size:254;column:email"`
	PasswordHash string    `gorm:"size:128;column:password_hash"` // "!" when the identity provider owns the credentials
	IsSuperuser  bool      `gorm:"default:false;column:is_superuser"`
	CreatedAt    time.Time `gorm:"autoCreateTime;column:created_at"`

	Profile Profile `gorm:"foreignKey:UserID"`
}

type Profile struct {
	ID             int64  `gorm:"primaryKey;autoIncrement;column:id"`
	UserID         int64  `gorm:"uniqueIndex;not null;column:user_id"`
	DisplayName    string `gorm:"size:120;column:display_name"`
	GamerTag       string `gorm:"size:60;column:gamer_tag"`
	Bio            string `gorm:"type:text;column:bio"`
	Country        string `gorm:"size:60;column:country"`
	City           string `gorm:"size:60;column:city"`
	FavoriteDomain string `gorm:"size:20;column:favorite_domain"` // tiempo, niebla, cenizas, vientos, piedra
	Avatar         string `gorm:"size:255;column:avatar"`
}
