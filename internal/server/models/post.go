package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PostStatus string

const (
	PostDraft    PostStatus = "draft"
	PostPending  PostStatus = "pending"
	PostApproved PostStatus = "approved"
	PostRejected PostStatus = "rejected"
	PostExpired  PostStatus = "expired"
	PostRented   PostStatus = "rented"
)

type PostType string

const (
	PostForRent    PostType = "for_rent"
	PostLookingFor PostType = "looking_for"
)

type PriceType string

const (
	PriceMonthly PriceType = "monthly"
	PriceDaily   PriceType = "daily"
)

type RoomType string

const (
	RoomSingle    RoomType = "single_room"
	RoomShared    RoomType = "shared_room"
	RoomApartment RoomType = "apartment"
	RoomHouse     RoomType = "house"
	RoomStudio    RoomType = "studio"
)

type GenderRequirement string

const (
	GenderMale   GenderRequirement = "male"
	GenderFemale GenderRequirement = "female"
	GenderAny    GenderRequirement = "any"
)

// Post is a rental listing. New posts start in PostPending until moderated.
type Post struct {
	ID                string
	UserID            string
	Type              PostType
	Title             string
	Description       string
	Price             decimal.Decimal
	PriceType         PriceType
	Area              float64
	Address           string
	RoomType          RoomType
	GenderRequirement GenderRequirement
	MaxOccupants      int
	AvailableFrom     *time.Time
	ContactName       string
	ContactPhone      string
	Status            PostStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Media  []PostMedia
	Author PublicUser
}

// PostMedia is one uploaded image or video attached to a post. MediaURL is
// the object storage key; presigned download URLs are derived on read.
type PostMedia struct {
	ID        string
	PostID    string
	MediaURL  string
	MediaType string
	SortOrder int
	AltText   string
	CreatedAt time.Time
}
