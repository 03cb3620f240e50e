package notifyService

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"pickemEngine/models"
)

// Create inserts a notification row. Fire-and-forget: failures are logged and
// dropped so a notification can never block or fail settlement.
func Create(db *gorm.DB, userID uint, notifType, message, metadata string) {
	notification := models.Notification{
		UUID:     uuid.NewString(),
		UserID:   userID,
		Type:     notifType,
		Message:  message,
		Metadata: metadata,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("notification dropped for user %d (%s): %v", userID, notifType, err)
	}
}
