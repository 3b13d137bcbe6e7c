package models

type User struct {
	BaseModel
	Username     string   `gorm:"type:varchar(30);not null" json:"username"`
	Email        string   `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null;index" json:"role"`
	Location     string   `gorm:"type:varchar(100)" json:"location,omitempty"`
	Gender       string   `gorm:"type:varchar(20)" json:"gender,omitempty"`
	Resume       string   `json:"resume,omitempty"`
}
