package domain

import (
	"time"
)

// DefaultMinIncrement is applied when an auction is created without an
// explicit bid increment.
const DefaultMinIncrement = 5.00

type Auction struct {
	ID            string
	ArtworkID     string
	StartTime     time.Time
	EndTime       time.Time
	StartingPrice float64
	ReservePrice  float64 // 0 means no reserve
	CurrentPrice  float64
	MinIncrement  float64
	Status        AuctionStatus
	WinnerID      string // empty until the auction ends with a winner
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type AuctionStatus string

const (
	AuctionPending   AuctionStatus = "pending"
	AuctionActive    AuctionStatus = "active"
	AuctionEnded     AuctionStatus = "ended"
	AuctionCancelled AuctionStatus = "cancelled"
)

// HasReserve reports whether a reserve price was set at creation.
func (a *Auction) HasReserve() bool {
	return a.ReservePrice > 0
}

// MinAcceptableBid computes the lowest amount the next bid may carry.
// highestBid is the amount of the current top bid, or 0 when no bid exists.
func (a *Auction) MinAcceptableBid(highestBid float64) float64 {
	if highestBid > 0 {
		return highestBid + a.MinIncrement
	}
	return a.StartingPrice
}

type Bid struct {
	ID        string
	AuctionID string
	UserID    string
	Amount    float64
	CreatedAt time.Time
}

// Artwork carries only the fields the auction core mutates. Descriptive
// fields (description, images, tags) belong to the listing CRUD layer.
type Artwork struct {
	ID           string
	SellerID     string
	Title        string
	Price        float64 // listing price, restored on cancellation
	CurrentPrice float64
	Status       ArtworkStatus
	IsAuction    bool
}

type ArtworkStatus string

const (
	ArtworkActive  ArtworkStatus = "active"
	ArtworkPending ArtworkStatus = "pending"
	ArtworkSold    ArtworkStatus = "sold"
	ArtworkExpired ArtworkStatus = "expired"
)

type Notification struct {
	ID        string
	UserID    string
	Message   string
	Link      string
	IsRead    bool
	CreatedAt time.Time
}

// TransitionKind names a lifecycle transition performed by the sweep.
type TransitionKind string

const (
	TransitionStarted TransitionKind = "started"
	TransitionEnded   TransitionKind = "ended"
)

type Transition struct {
	AuctionID string         `json:"auction_id"`
	Kind      TransitionKind `json:"transition"`
}

type TimeRemaining struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Ended   bool `json:"ended"`
}

// AuctionState is the poll-side snapshot cached in redis for status checks.
type AuctionState struct {
	AuctionID    string        `json:"auction_id"`
	Status       AuctionStatus `json:"status"`
	CurrentPrice float64       `json:"current_price"`
	EndTime      time.Time     `json:"end_time"`
}
