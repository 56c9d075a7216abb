package models

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	DisplayName  string     `gorm:"type:varchar(100)"`
	Role         UserRole   `gorm:"type:varchar(20);not null;default:'nurse'"`
	Status       UserStatus `gorm:"type:varchar(20);default:'pending'"`

	StripeCustomerID string `gorm:"index"`

	// Relations
	Subscription *UserSubscription `gorm:"foreignKey:UserID"`
	SullyUsage   *SullyUsage       `gorm:"foreignKey:UserID"`
}
