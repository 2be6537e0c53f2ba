package models

import "time"

// User represents a registered user
type User struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"`
	Avatar             string    `json:"avatar"`
	CoupleID           *string   `json:"couple_id,omitempty"`
	GoogleID           *string   `json:"-"`
	GoogleAccessToken  *string   `json:"-"`
	GoogleRefreshToken *string   `json:"-"`
	CreatedAt          time.Time `json:"created_at"`
}

// PublicProfile is the subset of User safe to embed in shared responses
type PublicProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Profile returns the user's public profile
func (u *User) Profile() PublicProfile {
	return PublicProfile{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// Couple represents a pair of linked users.
// Partner1ID is set at creation; Partner2ID stays nil until a second user
// joins with the secret code. A couple never holds more than two members.
type Couple struct {
	ID              string     `json:"id"`
	Partner1ID      string     `json:"partner1_id"`
	Partner2ID      *string    `json:"partner2_id,omitempty"`
	SecretCode      string     `json:"secret_code"`
	NextMeetingDate *time.Time `json:"next_meeting_date,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// IsFull reports whether both partner slots are taken
func (c *Couple) IsFull() bool {
	return c.Partner2ID != nil
}

// Mood is the feeling attached to a journal post
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodExcited  Mood = "excited"
	MoodTired    Mood = "tired"
	MoodRomantic Mood = "romantic"
	MoodAngry    Mood = "angry"
	MoodChill    Mood = "chill"
)

// Valid reports whether m is a known mood
func (m Mood) Valid() bool {
	switch m {
	case MoodHappy, MoodSad, MoodExcited, MoodTired, MoodRomantic, MoodAngry, MoodChill:
		return true
	}
	return false
}

// Post is a journal entry shared within a couple.
// Date is user-settable and distinct from CreatedAt so entries can be
// backdated to the day they are about.
type Post struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	CoupleID  *string   `json:"couple_id,omitempty"`
	Content   string    `json:"content"`
	Mood      Mood      `json:"mood"`
	Images    []string  `json:"images"`
	Date      time.Time `json:"date"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Event is a calendar entry at day granularity; Date is YYYY-MM-DD
type Event struct {
	ID        string    `json:"id"`
	CoupleID  string    `json:"couple_id"`
	Title     string    `json:"title"`
	Date      string    `json:"date"`
	CreatedAt time.Time `json:"created_at"`
}

// ItemType distinguishes the two kinds of list entries
type ItemType string

const (
	ItemMovie ItemType = "movie"
	ItemSong  ItemType = "song"
)

// Valid reports whether t is a known item type
func (t ItemType) Valid() bool {
	return t == ItemMovie || t == ItemSong
}

// ItemStatus tracks whether a list entry has been watched/listened
type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemCompleted ItemStatus = "completed"
)

// Valid reports whether s is a known status
func (s ItemStatus) Valid() bool {
	return s == ItemPending || s == ItemCompleted
}

// ListItem is a watch/listen list entry
type ListItem struct {
	ID        string     `json:"id"`
	CoupleID  string     `json:"couple_id"`
	AddedByID string     `json:"added_by"`
	Title     string     `json:"title"`
	Type      ItemType   `json:"type"`
	Status    ItemStatus `json:"status"`
	Link      string     `json:"link"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// IconType tags a timeline moment with a fixed icon category
type IconType string

const (
	IconHeart  IconType = "heart"
	IconRing   IconType = "ring"
	IconPlane  IconType = "plane"
	IconHome   IconType = "home"
	IconStar   IconType = "star"
	IconCamera IconType = "camera"
)

// Valid reports whether i is a known icon type
func (i IconType) Valid() bool {
	switch i {
	case IconHeart, IconRing, IconPlane, IconHome, IconStar, IconCamera:
		return true
	}
	return false
}

// TimelineMoment is a dated milestone on the couple's shared timeline
type TimelineMoment struct {
	ID          string    `json:"id"`
	CoupleID    string    `json:"couple_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Image       string    `json:"image,omitempty"`
	IconType    IconType  `json:"icon_type"`
	CreatedAt   time.Time `json:"created_at"`
}
