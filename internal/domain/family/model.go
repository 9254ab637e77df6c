package family

import (
	"time"

	"github.com/lib/pq"
)

// Parent is an authenticated adult account. Parents that share a share code
// form one family.
type Parent struct {
	ID            string         `gorm:"primaryKey"`
	Email         string         `gorm:"not null"`
	FamilyName    string         `gorm:"not null"`
	ShareCode     string         `gorm:"size:6;not null;index"`
	FamilyID      string         `gorm:"type:uuid;not null;index"`
	FamilyMembers pq.StringArray `gorm:"type:text[];not null"`
	Children      pq.StringArray `gorm:"type:text[];not null"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

// Preview is what an invitee sees before joining.
type Preview struct {
	FamilyName  string
	ShareCode   string
	MemberCount int
}

type Member struct {
	ID       string
	Email    string
	JoinedAt time.Time
}

type SyncResult struct {
	Members  []string
	Children []string
	Updated  bool
}
