// model.go this code defines the data model for the application
package datastore

import "time"

// Admin represents an administrative user of the backend. OTP delivery and
// token issuance are handled by external collaborators; only the reference
// record lives here.
type Admin struct {
	ID         uint   `gorm:"primaryKey"`
	Username   string
	Mobile     string `gorm:"uniqueIndex;not null"`
	Role       string `gorm:"type:varchar(32)"`
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Member represents a registered party member
type Member struct {
	ID                     string `gorm:"primaryKey;type:varchar(36)"` // uuid
	Mobile                 string `gorm:"index:idx_members_mobile"`
	Name                   string
	ImageData              []byte `gorm:"type:blob"`
	ImageType              string
	DateOfBirth            string
	ParentsName            string
	Address                string `gorm:"type:text"`
	EducationQualification string
	Caste                  string
	JoiningDate            string
	JoiningDetails         string `gorm:"type:text"`
	PartyMemberNumber      string `gorm:"index:idx_members_pmn"`
	VoterID                string
	AadhaarNumber          string
	TName                  string
	DName                  string
	JName                  string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// Team represents an organizational unit; the positions view lists the
// distinct code/name tuples.
type Team struct {
	ID    uint   `gorm:"primaryKey"`
	TCode string `gorm:"index:idx_teams_tcode"`
	DCode string
	JCode string
	TName string
	DName string
	JName string
}

// Event represents a party or government event
type Event struct {
	ID          uint `gorm:"primaryKey"`
	Title       string
	Type        string `gorm:"type:varchar(20)"` // "party" or "government"
	Date        string
	Time        string
	Location    string
	Description string `gorm:"type:text"`
	ImageData   []byte `gorm:"type:blob"`
	ImageType   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Fund represents a tracked fund allocation
type Fund struct {
	ID         uint `gorm:"primaryKey"`
	TaskName   string
	TUnion     string
	TParvUnion string
	TPanchayat string
	TVillage   string
	Year       string
	FundName   string
	BoothNo    int
	Status     string `gorm:"type:varchar(20)"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ElectionYear is a reference year for a set of booth results. Years are
// created by the admin endpoint only; the import pipeline never creates one.
type ElectionYear struct {
	ID   uint `gorm:"primaryKey"`
	Year int  `gorm:"uniqueIndex;not null"`
}

// Constituency is a reference electoral district
type Constituency struct {
	ID     uint `gorm:"primaryKey"`
	Number int
	Code   string
	Name   string
}

// Booth is a polling location inside a constituency. Booths are created
// lazily by the import pipeline on first sight and never updated by it.
type Booth struct {
	ID             uint `gorm:"primaryKey"`
	ConstituencyID uint `gorm:"uniqueIndex:idx_booths_constituency_no;not null"`
	BoothNo        int  `gorm:"uniqueIndex:idx_booths_constituency_no;not null"`
	VillageName    string
}

// BoothResult is the outcome for one booth in one year, upserted by the
// import pipeline keyed on (BoothID, YearID). There is no history: a later
// import for the same key overwrites the two percentage fields in place.
type BoothResult struct {
	ID                uint `gorm:"primaryKey"`
	BoothID           uint `gorm:"uniqueIndex:idx_results_booth_year;not null"`
	YearID            uint `gorm:"uniqueIndex:idx_results_booth_year;not null"`
	PollingPercentage float64
	PartyPercentage   float64
}

// ConstituencyResult is a flattened row for the per-constituency results view
type ConstituencyResult struct {
	BoothID           uint    `json:"boothId"`
	BoothNo           int     `json:"boothNo"`
	VillageName       string  `json:"villageName"`
	Year              int     `json:"year"`
	PollingPercentage float64 `json:"pollingPercentage"`
	PartyPercentage   float64 `json:"partyPercentage"`
}
