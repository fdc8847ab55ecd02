package suggest

import (
	"encoding/json"
	"strings"

	"github.com/kittclouds/goplanner/internal/store"
)

// defaultContextBudget caps the assembled user prompt. Existing-beat
// summaries are dropped from the tail until the context fits.
const defaultContextBudget = 2000

// BeatRef is a sibling beat summary included in beat context.
type BeatRef struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// BeatContext is the structured context sent for a beat suggestion.
type BeatContext struct {
	BeatName      string    `json:"beatName"`
	BeatType      string    `json:"beatType"`
	Framework     string    `json:"framework"`
	Premise       string    `json:"premise"`
	ExistingBeats []BeatRef `json:"existingBeats"`
}

// BeatSuggestion is the typed payload for a beat suggestion.
type BeatSuggestion struct {
	Description string `json:"description"`
	Notes       string `json:"notes"`
}

// ArcContext is the structured context sent for an arc suggestion.
type ArcContext struct {
	ArcName   string `json:"arcName"`
	ArcType   string `json:"arcType"`
	Framework string `json:"framework"`
	Premise   string `json:"premise"`
	Theme     string `json:"theme"`
}

// ArcSuggestion is the typed payload for an arc suggestion.
type ArcSuggestion struct {
	Description   string `json:"description"`
	StartingState string `json:"startingState"`
	EndingState   string `json:"endingState"`
	ValueAtStake  string `json:"valueAtStake"`
}

// ThreadContext is the structured context sent for payoff ideas.
type ThreadContext struct {
	ThreadName  string   `json:"threadName"`
	ThreadType  string   `json:"threadType"`
	Description string   `json:"description"`
	Premise     string   `json:"premise"`
	Plants      []string `json:"plants"`
}

// ThreadSuggestion is the typed payload for thread payoff ideas.
type ThreadSuggestion struct {
	PayoffIdeas []string `json:"payoffIdeas"`
}

// Suggester turns plan state into suggestion calls.
type Suggester struct {
	llm           LLMClient
	contextBudget int
}

// NewSuggester creates a suggester over the given client.
func NewSuggester(llm LLMClient) *Suggester {
	return &Suggester{llm: llm, contextBudget: defaultContextBudget}
}

const beatSystemPrompt = `You are a story structure assistant. Given a beat and its surrounding plan, suggest content for it.

You must return a JSON object with this exact structure:
{
  "description": "What happens in this beat, 2-4 sentences",
  "notes": "Optional craft advice for writing it"
}

Ground the suggestion in the premise and the existing beats. Do not contradict established beats.`

const arcSystemPrompt = `You are a story structure assistant. Given a narrative arc and its plan, suggest how it develops.

You must return a JSON object with this exact structure:
{
  "description": "What this arc is about, 2-4 sentences",
  "startingState": "Where things stand when the arc opens",
  "endingState": "Where things stand when the arc closes",
  "valueAtStake": "The value this arc puts in question"
}`

const threadSystemPrompt = `You are a story structure assistant. Given a plot thread and its planted foreshadowing, suggest payoff ideas.

You must return a JSON object with this exact structure:
{
  "payoffIdeas": ["idea one", "idea two", "idea three"]
}

Each idea should pay off at least one plant.`

// SuggestBeat asks for beat content. Sibling beats are included as
// context, trimmed from the tail to fit the token budget.
func (s *Suggester) SuggestBeat(plan *store.Plan, beat *store.Beat, siblings []*store.Beat) (*BeatSuggestion, error) {
	ctx := BeatContext{
		BeatName:  beat.Name,
		BeatType:  beat.BeatType,
		Framework: plan.Framework,
		Premise:   plan.Premise,
	}
	for _, b := range siblings {
		if b.ID == beat.ID {
			continue
		}
		ctx.ExistingBeats = append(ctx.ExistingBeats, BeatRef{Name: b.Name, Description: b.Description})
	}

	prompt, err := s.budgetedPrompt(&ctx, func() bool {
		if len(ctx.ExistingBeats) == 0 {
			return false
		}
		ctx.ExistingBeats = ctx.ExistingBeats[:len(ctx.ExistingBeats)-1]
		return true
	})
	if err != nil {
		return nil, &AdapterError{Op: "suggestBeat", Stage: StageCall, Err: err}
	}

	var out BeatSuggestion
	if err := s.complete("suggestBeat", prompt, beatSystemPrompt, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Description) == "" {
		return nil, &AdapterError{Op: "suggestBeat", Stage: StageEmpty}
	}
	return &out, nil
}

// SuggestArc asks for arc development content.
func (s *Suggester) SuggestArc(plan *store.Plan, arc *store.Arc) (*ArcSuggestion, error) {
	ctx := ArcContext{
		ArcName:   arc.Name,
		ArcType:   string(arc.Type),
		Framework: plan.Framework,
		Premise:   plan.Premise,
		Theme:     plan.Theme,
	}
	prompt, err := json.Marshal(ctx)
	if err != nil {
		return nil, &AdapterError{Op: "suggestArc", Stage: StageCall, Err: err}
	}

	var out ArcSuggestion
	if err := s.complete("suggestArc", string(prompt), arcSystemPrompt, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Description) == "" {
		return nil, &AdapterError{Op: "suggestArc", Stage: StageEmpty}
	}
	return &out, nil
}

// SuggestThreadPayoff asks for payoff ideas grounded in the thread's
// plants.
func (s *Suggester) SuggestThreadPayoff(plan *store.Plan, thread *store.Thread) (*ThreadSuggestion, error) {
	ctx := ThreadContext{
		ThreadName:  thread.Name,
		ThreadType:  string(thread.Type),
		Description: thread.Description,
		Premise:     plan.Premise,
	}
	for _, p := range thread.Plants {
		if !p.IsPayoff {
			ctx.Plants = append(ctx.Plants, p.Description)
		}
	}
	prompt, err := json.Marshal(ctx)
	if err != nil {
		return nil, &AdapterError{Op: "suggestThreadPayoff", Stage: StageCall, Err: err}
	}

	var out ThreadSuggestion
	if err := s.complete("suggestThreadPayoff", string(prompt), threadSystemPrompt, &out); err != nil {
		return nil, err
	}
	if len(out.PayoffIdeas) == 0 {
		return nil, &AdapterError{Op: "suggestThreadPayoff", Stage: StageEmpty}
	}
	return &out, nil
}

// complete runs one call and parses the reply into v. Parsing happens
// here and nowhere else.
func (s *Suggester) complete(op, userPrompt, systemPrompt string, v any) error {
	reply, err := s.llm.Complete(userPrompt, systemPrompt)
	if err != nil {
		return &AdapterError{Op: op, Stage: StageCall, Err: err}
	}
	if err := json.Unmarshal([]byte(reply), v); err != nil {
		return &AdapterError{Op: op, Stage: StageParse, Err: err}
	}
	return nil
}

// budgetedPrompt marshals ctx, calling shrink until the estimate fits
// the budget or shrink reports nothing left to drop.
func (s *Suggester) budgetedPrompt(ctx any, shrink func() bool) (string, error) {
	for {
		b, err := json.Marshal(ctx)
		if err != nil {
			return "", err
		}
		if EstimateTokens(string(b)) <= s.contextBudget || !shrink() {
			return string(b), nil
		}
	}
}
