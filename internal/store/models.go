// Package store provides persistence for the GoPlanner engine.
// This is the unified data layer for the writing-planner entities:
// Plan, Arc, Beat, Scene, CharacterArc and Thread.
package store

// Kind identifies an entity collection.
type Kind string

const (
	KindPlan         Kind = "plan"
	KindArc          Kind = "arc"
	KindBeat         Kind = "beat"
	KindScene        Kind = "scene"
	KindCharacterArc Kind = "characterArc"
	KindThread       Kind = "thread"
)

// ChildKinds lists the plan-owned collections, in cascade-delete order.
var ChildKinds = []Kind{KindArc, KindBeat, KindScene, KindCharacterArc, KindThread}

// AutoOrder tells Create* to assign max(plan's orders)+1.
// Any non-negative value is stored as given.
const AutoOrder float64 = -1

// Status is the shared lifecycle enum for beats, scenes, arcs and
// character arcs. Scenes additionally start at StatusIdea.
type Status string

const (
	StatusIdea       Status = "idea"
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in-progress"
	StatusDrafted    Status = "drafted"
	StatusRevised    Status = "revised"
	StatusComplete   Status = "complete"
)

// ThreadStatus is the separate five-state machine for plot threads.
// Abandoned is reachable from any state and terminal alongside resolved.
type ThreadStatus string

const (
	ThreadSetup      ThreadStatus = "setup"
	ThreadDeveloping ThreadStatus = "developing"
	ThreadClimax     ThreadStatus = "climax"
	ThreadResolved   ThreadStatus = "resolved"
	ThreadAbandoned  ThreadStatus = "abandoned"
)

// ArcType classifies a narrative arc.
type ArcType string

const (
	ArcMain      ArcType = "main"
	ArcSubplot   ArcType = "subplot"
	ArcCharacter ArcType = "character"
	ArcThematic  ArcType = "thematic"
)

// CharacterArcType classifies a character's psychological trajectory.
type CharacterArcType string

const (
	CharacterArcPositive        CharacterArcType = "positive"
	CharacterArcNegative        CharacterArcType = "negative"
	CharacterArcFlat            CharacterArcType = "flat"
	CharacterArcCorruption      CharacterArcType = "corruption"
	CharacterArcDisillusionment CharacterArcType = "disillusionment"
)

// ThreadType classifies a plot thread.
type ThreadType string

const (
	ThreadMystery  ThreadType = "mystery"
	ThreadRomance  ThreadType = "romance"
	ThreadConflict ThreadType = "conflict"
	ThreadQuest    ThreadType = "quest"
	ThreadSecret   ThreadType = "secret"
	ThreadProphecy ThreadType = "prophecy"
)

// PacingType classifies a scene's rhythm role.
type PacingType string

const (
	PacingAction     PacingType = "action"
	PacingReaction   PacingType = "reaction"
	PacingTransition PacingType = "transition"
	PacingExposition PacingType = "exposition"
)

// TypeInfo is display metadata for a closed enum value.
type TypeInfo struct {
	Label string `json:"label"`
	Color string `json:"color,omitempty"`
}

// ArcTypes maps each arc type to its display metadata.
var ArcTypes = map[ArcType]TypeInfo{
	ArcMain:      {Label: "Main Plot", Color: "#e05d44"},
	ArcSubplot:   {Label: "Subplot", Color: "#4c9aff"},
	ArcCharacter: {Label: "Character Arc", Color: "#36b37e"},
	ArcThematic:  {Label: "Thematic Arc", Color: "#8777d9"},
}

// ThreadTypes maps each thread type to its display metadata.
var ThreadTypes = map[ThreadType]TypeInfo{
	ThreadMystery:  {Label: "Mystery"},
	ThreadRomance:  {Label: "Romance"},
	ThreadConflict: {Label: "Conflict"},
	ThreadQuest:    {Label: "Quest"},
	ThreadSecret:   {Label: "Secret"},
	ThreadProphecy: {Label: "Prophecy"},
}

// PacingTypes maps each pacing type to its display metadata.
var PacingTypes = map[PacingType]TypeInfo{
	PacingAction:     {Label: "Action"},
	PacingReaction:   {Label: "Reaction"},
	PacingTransition: {Label: "Transition"},
	PacingExposition: {Label: "Exposition"},
}

// Plan is the top-level planning container for one piece of writing.
// WritingID is a weak reference to the app's writing record; the store
// does not enforce one-plan-per-writing (see GetPlanByWriting).
type Plan struct {
	ID              string   `json:"id"`
	WritingID       string   `json:"writingId" validate:"required"`
	Title           string   `json:"title" validate:"required"`
	Framework       string   `json:"framework"`
	Premise         string   `json:"premise"`
	Synopsis        string   `json:"synopsis"`
	Theme           string   `json:"theme"`
	GenreTags       []string `json:"genreTags"`
	TargetWordCount *int     `json:"targetWordCount,omitempty"`
	CreatedAt       int64    `json:"createdAt"`
	UpdatedAt       int64    `json:"updatedAt"`
}

// Arc is a macro narrative thread spanning the whole plan.
type Arc struct {
	ID                 string   `json:"id"`
	PlanID             string   `json:"planId" validate:"required"`
	Name               string   `json:"name" validate:"required"`
	Type               ArcType  `json:"type" validate:"required,oneof=main subplot character thematic"`
	Description        string   `json:"description"`
	StartingState      string   `json:"startingState"`
	EndingState        string   `json:"endingState"`
	ValueAtStake       string   `json:"valueAtStake"`
	Status             Status   `json:"status" validate:"omitempty,oneof=planned in-progress drafted revised complete"`
	Order              float64  `json:"order"`
	LinkedCharacterIDs []string `json:"linkedCharacterIds"`
	Color              string   `json:"color"`
	CreatedAt          int64    `json:"createdAt"`
	UpdatedAt          int64    `json:"updatedAt"`
}

// Beat is a story-structure milestone at a target percentage through
// the narrative. BeatType is a framework template id or "custom".
type Beat struct {
	ID               string  `json:"id"`
	PlanID           string  `json:"planId" validate:"required"`
	ArcID            string  `json:"arcId,omitempty"`
	Name             string  `json:"name" validate:"required"`
	BeatType         string  `json:"beatType"`
	Description      string  `json:"description"`
	TargetPercentage float64 `json:"targetPercentage" validate:"min=0,max=100"`
	TargetWordCount  *int    `json:"targetWordCount,omitempty"`
	ActualChapterID  string  `json:"actualChapterId,omitempty"`
	Status           Status  `json:"status" validate:"omitempty,oneof=planned in-progress drafted revised complete"`
	Notes            string  `json:"notes"`
	Order            float64 `json:"order"`
	ActNumber        int     `json:"actNumber" validate:"omitempty,oneof=1 2 3"`
	CreatedAt        int64   `json:"createdAt"`
	UpdatedAt        int64   `json:"updatedAt"`
}

// Scene is a planned narrative unit with Scene/Sequel fields.
// POVCharacterID, LocationID, ChapterID and the id sets are weak
// references; dangling ids are expected and tolerated.
type Scene struct {
	ID                  string     `json:"id"`
	PlanID              string     `json:"planId" validate:"required"`
	ChapterID           string     `json:"chapterId,omitempty"`
	Title               string     `json:"title" validate:"required"`
	Summary             string     `json:"summary"`
	POVCharacterID      string     `json:"povCharacterId,omitempty"`
	LocationID          string     `json:"locationId,omitempty"`
	Goal                string     `json:"goal"`
	Conflict            string     `json:"conflict"`
	Disaster            string     `json:"disaster"`
	Reaction            string     `json:"reaction"`
	Dilemma             string     `json:"dilemma"`
	Decision            string     `json:"decision"`
	TensionLevel        int        `json:"tensionLevel" validate:"omitempty,min=1,max=10"`
	PacingType          PacingType `json:"pacingType" validate:"omitempty,oneof=action reaction transition exposition"`
	LinkedArcIDs        []string   `json:"linkedArcIds"`
	PresentCharacterIDs []string   `json:"presentCharacterIds"`
	LinkedBeatIDs       []string   `json:"linkedBeatIds"`
	Order               float64    `json:"order"`
	EstimatedWordCount  int        `json:"estimatedWordCount" validate:"min=0"`
	Status              Status     `json:"status" validate:"omitempty,oneof=idea planned in-progress drafted revised complete"`
	Notes               string     `json:"notes"`
	CreatedAt           int64      `json:"createdAt"`
	UpdatedAt           int64      `json:"updatedAt"`
}

// Milestone is one step of a character arc's development.
type Milestone struct {
	ID             string `json:"id"`
	Description    string `json:"description"`
	InternalShift  string `json:"internalShift"`
	ExternalChange string `json:"externalChange"`
	SceneID        string `json:"sceneId,omitempty"`
}

// CharacterArc tracks one character's psychological development
// within a plan. CharacterID is a weak reference into the app's
// character store, expected (not enforced) unique per plan.
type CharacterArc struct {
	ID             string           `json:"id"`
	PlanID         string           `json:"planId" validate:"required"`
	CharacterID    string           `json:"characterId" validate:"required"`
	Type           CharacterArcType `json:"type" validate:"required,oneof=positive negative flat corruption disillusionment"`
	StartingBelief string           `json:"startingBelief"`
	EndingBelief   string           `json:"endingBelief"`
	Ghost          string           `json:"ghost"`
	Want           string           `json:"want"`
	Need           string           `json:"need"`
	Milestones     []Milestone      `json:"milestones"`
	LinkedArcID    string           `json:"linkedArcId,omitempty"`
	Status         Status           `json:"status" validate:"omitempty,oneof=planned in-progress drafted revised complete"`
	Notes          string           `json:"notes"`
	Order          float64          `json:"order"`
	CreatedAt      int64            `json:"createdAt"`
	UpdatedAt      int64            `json:"updatedAt"`
}

// Plant is a foreshadowing record on a thread.
type Plant struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	SceneID     string `json:"sceneId,omitempty"`
	IsPayoff    bool   `json:"isPayoff"`
	CreatedAt   int64  `json:"createdAt"`
}

// Thread is a tracked narrative throughline with setup/payoff scenes.
type Thread struct {
	ID                   string       `json:"id"`
	PlanID               string       `json:"planId" validate:"required"`
	Name                 string       `json:"name" validate:"required"`
	Description          string       `json:"description"`
	Type                 ThreadType   `json:"type" validate:"required,oneof=mystery romance conflict quest secret prophecy"`
	SetupSceneID         string       `json:"setupSceneId,omitempty"`
	PayoffSceneID        string       `json:"payoffSceneId,omitempty"`
	Status               ThreadStatus `json:"status" validate:"omitempty,oneof=setup developing climax resolved abandoned"`
	InvolvedCharacterIDs []string     `json:"involvedCharacterIds"`
	LinkedSceneIDs       []string     `json:"linkedSceneIds"`
	CodexEntryIDs        []string     `json:"codexEntryIds"`
	Plants               []Plant      `json:"plants"`
	Notes                string       `json:"notes"`
	Order                float64      `json:"order"`
	CreatedAt            int64        `json:"createdAt"`
	UpdatedAt            int64        `json:"updatedAt"`
}

// Storer defines the interface for planner persistence.
// MemStore and SQLiteStore implement it; the test suite runs against both.
//
// Create* assigns a UUID when ID is empty, stamps CreatedAt/UpdatedAt,
// and resolves AutoOrder. Get/Update/Delete on a missing id return a
// wrapped ErrNotFound. List*ByPlan orders by Order ascending (ties:
// CreatedAt, then ID).
//
// Get*/List* may hand out live records (MemStore does). Callers treat
// returned records as read-only and route mutations through Update*,
// which is the only path that stamps UpdatedAt.
type Storer interface {
	// Plans
	CreatePlan(p *Plan) error
	GetPlan(id string) (*Plan, error)
	// GetPlanByWriting returns the oldest plan for a writing. The store
	// allows several plans per writing; callers treat the first as "the"
	// plan, matching the app's query pattern.
	GetPlanByWriting(writingID string) (*Plan, error)
	ListPlans() ([]*Plan, error)
	UpdatePlan(p *Plan) error
	DeletePlan(id string) error

	// Arcs
	CreateArc(a *Arc) error
	GetArc(id string) (*Arc, error)
	ListArcsByPlan(planID string) ([]*Arc, error)
	UpdateArc(a *Arc) error
	DeleteArc(id string) error

	// Beats
	CreateBeat(b *Beat) error
	GetBeat(id string) (*Beat, error)
	ListBeatsByPlan(planID string) ([]*Beat, error)
	UpdateBeat(b *Beat) error
	DeleteBeat(id string) error

	// Scenes
	CreateScene(s *Scene) error
	GetScene(id string) (*Scene, error)
	ListScenesByPlan(planID string) ([]*Scene, error)
	UpdateScene(s *Scene) error
	DeleteScene(id string) error

	// Character arcs
	CreateCharacterArc(c *CharacterArc) error
	GetCharacterArc(id string) (*CharacterArc, error)
	ListCharacterArcsByPlan(planID string) ([]*CharacterArc, error)
	UpdateCharacterArc(c *CharacterArc) error
	DeleteCharacterArc(id string) error

	// Threads
	CreateThread(t *Thread) error
	GetThread(id string) (*Thread, error)
	ListThreadsByPlan(planID string) ([]*Thread, error)
	UpdateThread(t *Thread) error
	DeleteThread(id string) error

	// Kind-generic surface for reorder and cascade delete.
	ListIDsByPlan(kind Kind, planID string) ([]string, error)
	SetOrder(kind Kind, id string, order float64) error
	DeleteByPlan(kind Kind, planID string) (int, error)

	// Lifecycle
	Close() error
}
