package dbmysql

import "time"

// codex.go holds the encyclopedia tables. Every row here is mirrored
// into the document store on save and delete; the slug (or the numeric
// id where no slug exists) is the document id.

type Domain struct {
	ID               int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name             string `gorm:"size:120;not null;column:name"`
	Slug             string `gorm:"uniqueIndex;size:140;column:slug"`
	ShortDescription string `gorm:"type:text;column:short_description"`
	CoverImage       string `gorm:"size:255;column:cover_image"`
	BannerImage      string `gorm:"size:255;column:banner_image"`
	Color            string `gorm:"size:32;column:color"` // #hex or var(--*)
	Icon             string `gorm:"size:120;column:icon"`
	VideoURL         string `gorm:"size:255;column:video_url"`
	Order            int    `gorm:"default:0;column:sort_order"`
}

type Asset struct {
	ID      int64  `gorm:"primaryKey;autoIncrement;column:id"`
	File    string `gorm:"size:255;not null;column:file"`
	Kind    string `gorm:"size:10;default:'image';column:kind"` // image, gif, video
	Caption string `gorm:"size:160;column:caption"`
}

type LoreEntry struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Title      string    `gorm:"size:140;not null;column:title"`
	Slug       string    `gorm:"uniqueIndex;size:160;column:slug"`
	Summary    string    `gorm:"type:text;column:summary"`
	Body       string    `gorm:"type:text;not null;column:body"`
	DomainID   *int64    `gorm:"column:domain_id"`
	CoverImage string    `gorm:"size:255;column:cover_image"`
	VideoURL   string    `gorm:"size:255;column:video_url"`
	CreatedAt  time.Time `gorm:"autoCreateTime;column:created_at"`

	Domain  *Domain `gorm:"foreignKey:DomainID"`
	Gallery []Asset `gorm:"many2many:lore_entry_gallery"`
}

type Artifact struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name        string    `gorm:"size:120;not null;column:name"`
	Slug        string    `gorm:"uniqueIndex;size:160;column:slug"`
	DomainID    *int64    `gorm:"column:domain_id"`
	Quote       string    `gorm:"size:200;column:quote"`
	Rarity      string    `gorm:"size:10;default:'raro';column:rarity"` // comun, raro, epico, mitico
	Bearer      string    `gorm:"size:120;column:bearer"`
	Epoch       string    `gorm:"size:120;column:epoch"`
	Description string    `gorm:"type:text;column:description"`
	Usage       string    `gorm:"type:text;column:usage_notes"`
	Image       string    `gorm:"size:255;column:image"`
	Gif         string    `gorm:"size:255;column:gif"`
	VideoURL    string    `gorm:"size:255;column:video_url"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at"`

	Domain *Domain `gorm:"foreignKey:DomainID"`
}

type Character struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name        string    `gorm:"size:120;not null;column:name"`
	Slug        string    `gorm:"uniqueIndex;size:160;column:slug"`
	Role        string    `gorm:"size:120;column:role"`
	DomainID    *int64    `gorm:"column:domain_id"`
	Description string    `gorm:"type:text;column:description"`
	Playable    bool      `gorm:"default:false;column:playable"`
	SpriteStill string    `gorm:"size:255;column:sprite_still"`
	SpriteGif   string    `gorm:"size:255;column:sprite_gif"`
	ImageFull   string    `gorm:"size:255;column:image_full"`
	VideoURL    string    `gorm:"size:255;column:video_url"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at"`

	Domain *Domain `gorm:"foreignKey:DomainID"`
}

type Enemy struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Name        string    `gorm:"size:120;not null;column:name"`
	Slug        string    `gorm:"uniqueIndex;size:160;column:slug"`
	DomainID    *int64    `gorm:"column:domain_id"`
	Description string    `gorm:"type:text;column:description"`
	Behavior    string    `gorm:"type:text;column:behavior"`
	SpriteStill string    `gorm:"size:255;column:sprite_still"`
	SpriteGif   string    `gorm:"size:255;column:sprite_gif"`
	ImageFull   string    `gorm:"size:255;column:image_full"`
	VideoURL    string    `gorm:"size:255;column:video_url"`
	CreatedAt   time.Time `gorm:"autoCreateTime;column:created_at"`

	Domain *Domain `gorm:"foreignKey:DomainID"`
}

// Trap has no slug field; the mirror falls back to the numeric id.
type Trap struct {
	ID          int64  `gorm:"primaryKey;autoIncrement;column:id"`
	DomainID    int64  `gorm:"not null;index;column:domain_id"`
	Title       string `gorm:"size:140;not null;column:title"`
	Description string `gorm:"type:text;column:description"`
	Image       string `gorm:"size:255;column:image"`
	Gif         string `gorm:"size:255;column:gif"`

	Domain Domain `gorm:"foreignKey:DomainID"`
}

type Guide struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Title      string    `gorm:"size:140;not null;column:title"`
	Slug       string    `gorm:"uniqueIndex;size:160;column:slug"`
	Summary    string    `gorm:"type:text;column:summary"`
	Body       string    `gorm:"type:text;not null;column:body"`
	DomainID   *int64    `gorm:"column:domain_id"`
	Tags       string    `gorm:"size:200;column:tags"` // comma separated
	CoverImage string    `gorm:"size:255;column:cover_image"`
	ReadTime   int       `gorm:"default:4;column:read_time"`
	CreatedAt  time.Time `gorm:"autoCreateTime;column:created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime;index;column:updated_at"`

	Domain            *Domain     `gorm:"foreignKey:DomainID"`
	RelatedArtifacts  []Artifact  `gorm:"many2many:guide_artifacts"`
	RelatedCharacters []Character `gorm:"many2many:guide_characters"`
	RelatedEnemies    []Enemy     `gorm:"many2many:guide_enemies"`
}
