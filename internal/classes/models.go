package classes

import (
	"time"

	"github.com/google/uuid"
)

// MaxTotalSpots is the capacity ceiling for a single class.
const MaxTotalSpots = 50

type Class struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name          string    `json:"name" gorm:"not null;size:255"`
	Description   string    `json:"description" gorm:"type:text"`
	Instructor    string    `json:"instructor" gorm:"not null;size:255"`
	Category      string    `json:"category" gorm:"size:50;index"`
	Icon          string    `json:"icon" gorm:"size:16"`
	Date          time.Time `json:"date" gorm:"not null;index"`
	StartTime     string    `json:"start_time" gorm:"size:8;not null"`
	EndTime       string    `json:"end_time" gorm:"size:8;not null"`
	TotalSpots    int       `json:"total_spots" gorm:"not null;check:total_spots > 0"`
	ReservedSpots int       `json:"reserved_spots" gorm:"default:0;check:reserved_spots >= 0"`
	Status        Status    `json:"status" gorm:"type:varchar(20);default:'active'"`

	CreatedBy uuid.UUID `json:"created_by" gorm:"type:uuid;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// AvailableSpots is derived, never stored: TotalSpots minus ReservedSpots,
// floored at zero.
func (c *Class) AvailableSpots() int {
	available := c.TotalSpots - c.ReservedSpots
	if available < 0 {
		return 0
	}
	return available
}

// Schedule renders the denormalized time window copied onto reservations.
func (c *Class) Schedule() string {
	return c.StartTime + " - " + c.EndTime
}

type ClassResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Instructor     string    `json:"instructor"`
	Category       string    `json:"category"`
	Icon           string    `json:"icon"`
	Date           time.Time `json:"date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	TotalSpots     int       `json:"total_spots"`
	ReservedSpots  int       `json:"reserved_spots"`
	AvailableSpots int       `json:"available_spots"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type CreateClassRequest struct {
	Name        string    `json:"name" binding:"required,min=3,max=255"`
	Description string    `json:"description" binding:"max=2000"`
	Instructor  string    `json:"instructor" binding:"required,min=2,max=255"`
	Category    string    `json:"category" binding:"omitempty,oneof=yoga spinning weights functional crossfit"`
	Icon        string    `json:"icon" binding:"max=16"`
	Date        time.Time `json:"date" binding:"required"`
	StartTime   string    `json:"start_time" binding:"required"`
	EndTime     string    `json:"end_time" binding:"required"`
	TotalSpots  int       `json:"total_spots" binding:"required,min=1,max=50"`
}

type UpdateClassRequest struct {
	Name        *string    `json:"name" binding:"omitempty,min=3,max=255"`
	Description *string    `json:"description" binding:"omitempty,max=2000"`
	Instructor  *string    `json:"instructor" binding:"omitempty,min=2,max=255"`
	Category    *string    `json:"category" binding:"omitempty,oneof=yoga spinning weights functional crossfit"`
	Icon        *string    `json:"icon" binding:"omitempty,max=16"`
	Date        *time.Time `json:"date"`
	StartTime   *string    `json:"start_time"`
	EndTime     *string    `json:"end_time"`
	TotalSpots  *int       `json:"total_spots" binding:"omitempty,min=1,max=50"`
	Status      *string    `json:"status" binding:"omitempty,oneof=active cancelled"`
}

type ClassListQuery struct {
	Category string `form:"category" binding:"omitempty,oneof=yoga spinning weights functional crossfit"`
	Day      string `form:"day" binding:"omitempty,oneof=sunday monday tuesday wednesday thursday friday saturday"`
	Status   string `form:"status" binding:"omitempty,oneof=active full cancelled"`
}

func (c *Class) ToResponse() ClassResponse {
	return ClassResponse{
		ID:             c.ID.String(),
		Name:           c.Name,
		Description:    c.Description,
		Instructor:     c.Instructor,
		Category:       c.Category,
		Icon:           c.Icon,
		Date:           c.Date,
		StartTime:      c.StartTime,
		EndTime:        c.EndTime,
		TotalSpots:     c.TotalSpots,
		ReservedSpots:  c.ReservedSpots,
		AvailableSpots: c.AvailableSpots(),
		Status:         c.Status,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Class) TableName() string {
	return "classes"
}
