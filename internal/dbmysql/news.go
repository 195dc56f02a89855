package dbmysql

import "time"

type Category struct {
	ID    int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name  string `gorm:"size:120;not null;column:name"`
	Slug  string `gorm:"uniqueIndex;size:140;column:slug"`
	Color string `gorm:"size:32;column:color"`
	Icon  string `gorm:"size:120;column:icon"`
}

type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name string `gorm:"size:60;not null;column:name"`
	Slug string `gorm:"uniqueIndex;size:80;column:slug"`
}

type NewsArticle struct {
	ID          int64      `gorm:"primaryKey;autoIncrement;column:id"`
	Title       string     `gorm:"size:160;not null;column:title"`
	Slug        string     `gorm:"uniqueIndex;size:180;column:slug"`
	Summary     string     `gorm:"type:text;column:summary"`
	Body        string     `gorm:"type:text;not null;column:body"`
	AuthorID    *int64     `gorm:"column:author_id"`
	CategoryID  *int64     `gorm:"column:category_id"`
	HeroImage   string     `gorm:"size:255;column:hero_image"`
	BannerImage string     `gorm:"size:255;column:banner_image"`
	VideoURL    string     `gorm:"size:255;column:video_url"`
	Status      string     `gorm:"size:10;default:'draft';column:status"` // draft, scheduled, published
	PublishAt   *time.Time `gorm:"column:publish_at"`
	PinHome     bool       `gorm:"default:false;column:pin_home"`
	IsPatchNote bool       `gorm:"default:false;column:is_patch_notes"`
	Version     string     `gorm:"size:40;column:version"`
	ReadingTime int        `gorm:"default:4;column:reading_time"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime;column:updated_at"`

	Author   *User     `gorm:"foreignKey:AuthorID"`
	Category *Category `gorm:"foreignKey:CategoryID"`
	Tags     []Tag     `gorm:"many2many:news_article_tags"`
	Gallery  []Asset   `gorm:"many2many:news_article_gallery"`
}
