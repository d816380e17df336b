package schema

// Custom string types for type safety.
type (
	// TemplateType represents the family a template belongs to.
	TemplateType string

	// Period represents a calendar bucket for usage aggregation.
	Period string

	// PromotionStatus represents the lifecycle state of a promotion request.
	PromotionStatus string

	// ReviewAction represents a reviewer decision on a promotion request.
	ReviewAction string

	// Priority represents the urgency of a promotion request.
	Priority string

	// CreditType represents the kind of attribution given to an author.
	CreditType string

	// RecognitionLevel represents the award tier of an author credit.
	RecognitionLevel string

	// Visibility represents who can see an author credit.
	Visibility string

	// ActorRole represents the privilege level of a workflow actor.
	ActorRole string

	// TrendFactor represents keys used in trend score breakdowns.
	TrendFactor string

	// OutputMode represents the format of the output.
	OutputMode string

	// StoreBackend represents the database backend for the engine stores.
	StoreBackend string
)

// All template types supported.
const (
	PersonalTemplate TemplateType = "personal"
	VerifiedTemplate TemplateType = "verified"
)

// All aggregation periods supported.
const (
	DailyPeriod   Period = "daily"
	WeeklyPeriod  Period = "weekly"
	MonthlyPeriod Period = "monthly"
	YearlyPeriod  Period = "yearly"
)

// All promotion request states.
const (
	StatusPending     PromotionStatus = "pending"
	StatusUnderReview PromotionStatus = "under_review"
	StatusApproved    PromotionStatus = "approved"
	StatusRejected    PromotionStatus = "rejected"
	StatusImplemented PromotionStatus = "implemented"
)

// All review actions supported.
const (
	ActionApprove        ReviewAction = "approve"
	ActionReject         ReviewAction = "reject"
	ActionRequestChanges ReviewAction = "request_changes"
)

// All promotion priorities.
const (
	LowPriority    Priority = "low"
	MediumPriority Priority = "medium" // default
	HighPriority   Priority = "high"
	UrgentPriority Priority = "urgent"
)

// All credit types.
const (
	FullAuthorCredit   CreditType = "full_author" // default
	ContributorCredit  CreditType = "contributor"
	InspirationCredit  CreditType = "inspiration"
	CollaboratorCredit CreditType = "collaborator"
	ReviewerCredit     CreditType = "reviewer"
)

// All recognition levels.
const (
	BronzeLevel   RecognitionLevel = "bronze"
	SilverLevel   RecognitionLevel = "silver"
	GoldLevel     RecognitionLevel = "gold"
	PlatinumLevel RecognitionLevel = "platinum"
)

// All credit visibilities.
const (
	PublicVisibility     Visibility = "public" // default
	RestrictedVisibility Visibility = "restricted"
	PrivateVisibility    Visibility = "private"
)

// All actor roles.
const (
	AdminRole  ActorRole = "admin"
	MemberRole ActorRole = "member"
)

// Trend factor keys used in the scoring logic.
const (
	FactorUsage       TrendFactor = "usage"       // capped usage count
	FactorUsers       TrendFactor = "users"       // unique-user diversity
	FactorSuccess     TrendFactor = "success"     // success rate
	FactorRating      TrendFactor = "rating"      // average rating
	FactorFavorites   TrendFactor = "favorites"   // favorite count
	FactorPerformance TrendFactor = "performance" // execution-time performance
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All store backends supported.
const (
	SQLiteBackend     StoreBackend = "sqlite" // default
	MySQLBackend      StoreBackend = "mysql"
	PostgreSQLBackend StoreBackend = "postgresql"
	NoneBackend       StoreBackend = "none"
)

// AllPeriods returns a list of all supported aggregation periods.
var AllPeriods = []Period{DailyPeriod, WeeklyPeriod, MonthlyPeriod, YearlyPeriod}

// ValidTemplateTypes lists all valid template types.
var ValidTemplateTypes = map[TemplateType]struct{}{
	PersonalTemplate: {},
	VerifiedTemplate: {},
}

// ValidPeriods lists all valid aggregation periods.
var ValidPeriods = map[Period]struct{}{
	DailyPeriod:   {},
	WeeklyPeriod:  {},
	MonthlyPeriod: {},
	YearlyPeriod:  {},
}

// ValidReviewActions lists all valid review actions.
var ValidReviewActions = map[ReviewAction]struct{}{
	ActionApprove:        {},
	ActionReject:         {},
	ActionRequestChanges: {},
}

// ValidPriorities lists all valid promotion priorities.
var ValidPriorities = map[Priority]struct{}{
	LowPriority:    {},
	MediumPriority: {},
	HighPriority:   {},
	UrgentPriority: {},
}

// ValidCreditTypes lists all valid credit types.
var ValidCreditTypes = map[CreditType]struct{}{
	FullAuthorCredit:   {},
	ContributorCredit:  {},
	InspirationCredit:  {},
	CollaboratorCredit: {},
	ReviewerCredit:     {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidStoreBackends lists all valid store backends.
var ValidStoreBackends = map[StoreBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// DefaultTrendWeights returns the default weight map for the trend score.
// Weights sum to 1.0; each factor is normalized to a 0-100 scale before
// weighting, so the composite also lands on a 0-100 scale.
func DefaultTrendWeights() map[TrendFactor]float64 {
	return map[TrendFactor]float64{
		FactorUsage:       0.25,
		FactorUsers:       0.20,
		FactorSuccess:     0.20,
		FactorRating:      0.15,
		FactorFavorites:   0.10,
		FactorPerformance: 0.10,
	}
}
