//go:build js && wasm

package main

import (
	"context"
	"encoding/json"
	"errors"
	"syscall/js"

	"github.com/hack-pad/hackpadfs/indexeddb"

	"github.com/kittclouds/goplanner/internal/store"
	"github.com/kittclouds/goplanner/pkg/analysis"
	"github.com/kittclouds/goplanner/pkg/characters"
	"github.com/kittclouds/goplanner/pkg/mentions"
	"github.com/kittclouds/goplanner/pkg/plan"
	"github.com/kittclouds/goplanner/pkg/recall"
	"github.com/kittclouds/goplanner/pkg/relation"
	"github.com/kittclouds/goplanner/pkg/suggest"
)

// Version info
const Version = "0.1.0"

// Global state
var db store.Storer
var manager *plan.Manager
var lookup *characters.MapLookup
var dictionary *mentions.Dictionary
var suggester *suggest.Suggester
var recallStore *recall.Store

func main() {
	db = store.NewMemStore()
	manager = plan.NewManager(db)
	lookup = characters.NewMapLookup(nil)
	dictionary = mentions.Compile(nil)

	println("[GoPlanner] WASM Ready v" + Version)

	js.Global().Set("GoPlanner", js.ValueOf(map[string]interface{}{
		"version":    js.FuncOf(getVersion),
		"initialize": js.FuncOf(initialize),
		// Plans
		"createPlan":       js.FuncOf(createPlan),
		"getPlan":          js.FuncOf(getPlan),
		"getPlanByWriting": js.FuncOf(getPlanByWriting),
		"listPlans":        js.FuncOf(listPlans),
		"updatePlan":       js.FuncOf(updatePlan),
		"deletePlan":       js.FuncOf(deletePlan),
		// Plan-owned entities (kind-generic)
		"createEntity": js.FuncOf(createEntity),
		"getEntity":    js.FuncOf(getEntity),
		"listByPlan":   js.FuncOf(listByPlan),
		"updateEntity": js.FuncOf(updateEntity),
		"deleteEntity": js.FuncOf(deleteEntity),
		"reorder":      js.FuncOf(reorder),
		"toggle":       js.FuncOf(toggle),
		// Analytics
		"progress":          js.FuncOf(progress),
		"unresolvedThreads": js.FuncOf(unresolvedThreads),
		"pacingAnalysis":    js.FuncOf(pacingAnalysis),
		"timeline":          js.FuncOf(timeline),
		"currentBeat":       js.FuncOf(currentBeat),
		// Suggestions
		"setSuggestBridge":   js.FuncOf(setSuggestBridge),
		"suggestBeat":        js.FuncOf(suggestBeat),
		"suggestArc":         js.FuncOf(suggestArc),
		"suggestThreadPayoff": js.FuncOf(suggestThreadPayoff),
		// Characters
		"resolveCharacter": js.FuncOf(resolveCharacter),
		// Mentions
		"scanMentions":   js.FuncOf(scanMentions),
		"suggestPresent": js.FuncOf(suggestPresent),
		// Scene recall
		"initRecall":    js.FuncOf(initRecall),
		"addEmbedding":  js.FuncOf(addEmbedding),
		"searchSimilar": js.FuncOf(searchSimilar),
		"saveRecall":    js.FuncOf(saveRecall),
	}))

	select {}
}

// getVersion returns the module version
func getVersion(this js.Value, args []js.Value) interface{} {
	return Version
}

// initialize hydrates the character lookup and mention dictionary.
// Args: [charactersJSON string] - optional JSON array of {id, name, aliases}
func initialize(this js.Value, args []js.Value) interface{} {
	var cast []characters.Character
	if len(args) > 0 && args[0].String() != "" && args[0].String() != "[]" {
		if err := json.Unmarshal([]byte(args[0].String()), &cast); err != nil {
			return errorResult("invalid characters json: " + err.Error())
		}
	}

	lookup = characters.NewMapLookup(cast)
	dictionary = mentions.Compile(cast)
	println("[GoPlanner] ✅ Characters loaded:", len(cast))

	return successResult("initialized")
}

// =============================================================================
// Plans
// =============================================================================

// createPlan: [planJSON string]
// Returns the stored plan (with its instantiated beats queryable via listByPlan).
func createPlan(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: planJSON")
	}
	var p store.Plan
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return errorResult("invalid plan json: " + err.Error())
	}
	created, err := manager.CreatePlan(&p)
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(created)
}

// getPlan: [id string]
func getPlan(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: id")
	}
	p, err := db.GetPlan(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(p)
}

// getPlanByWriting: [writingId string]
func getPlanByWriting(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: writingId")
	}
	p, err := db.GetPlanByWriting(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(p)
}

// listPlans: []
func listPlans(this js.Value, args []js.Value) interface{} {
	plans, err := db.ListPlans()
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(plans)
}

// updatePlan: [planJSON string]
func updatePlan(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: planJSON")
	}
	var p store.Plan
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return errorResult("invalid plan json: " + err.Error())
	}
	if err := db.UpdatePlan(&p); err != nil {
		return errorResult(err.Error())
	}
	return successResult("updated")
}

// deletePlan: [id string]
// Cascades across every plan-owned collection; idempotent.
func deletePlan(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: id")
	}
	if err := manager.DeletePlan(args[0].String()); err != nil {
		return errorResult(err.Error())
	}
	return successResult("deleted")
}

// =============================================================================
// Plan-owned entities
// =============================================================================

// createEntity: [kind string, entityJSON string]
// An omitted "order" field auto-assigns to the end of the plan.
func createEntity(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: kind, entityJSON")
	}
	created, err := manager.CreateFromJSON(store.Kind(args[0].String()), []byte(args[1].String()))
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(created)
}

// getEntity: [kind string, id string]
func getEntity(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: kind, id")
	}
	id := args[1].String()

	var v interface{}
	var err error
	switch store.Kind(args[0].String()) {
	case store.KindArc:
		v, err = db.GetArc(id)
	case store.KindBeat:
		v, err = db.GetBeat(id)
	case store.KindScene:
		v, err = db.GetScene(id)
	case store.KindCharacterArc:
		v, err = db.GetCharacterArc(id)
	case store.KindThread:
		v, err = db.GetThread(id)
	default:
		return errorResult("unknown kind: " + args[0].String())
	}
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(v)
}

// listByPlan: [kind string, planId string]
// Returns entities ordered by their order field.
func listByPlan(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: kind, planId")
	}
	planID := args[1].String()

	var v interface{}
	var err error
	switch store.Kind(args[0].String()) {
	case store.KindArc:
		v, err = db.ListArcsByPlan(planID)
	case store.KindBeat:
		v, err = db.ListBeatsByPlan(planID)
	case store.KindScene:
		v, err = db.ListScenesByPlan(planID)
	case store.KindCharacterArc:
		v, err = db.ListCharacterArcsByPlan(planID)
	case store.KindThread:
		v, err = db.ListThreadsByPlan(planID)
	default:
		return errorResult("unknown kind: " + args[0].String())
	}
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(v)
}

// updateEntity: [kind string, entityJSON string]
func updateEntity(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: kind, entityJSON")
	}
	raw := []byte(args[1].String())

	var err error
	switch store.Kind(args[0].String()) {
	case store.KindArc:
		var a store.Arc
		if err = json.Unmarshal(raw, &a); err == nil {
			err = manager.UpdateArc(&a)
		}
	case store.KindBeat:
		var b store.Beat
		if err = json.Unmarshal(raw, &b); err == nil {
			err = manager.UpdateBeat(&b)
		}
	case store.KindScene:
		var sc store.Scene
		if err = json.Unmarshal(raw, &sc); err == nil {
			err = manager.UpdateScene(&sc)
		}
	case store.KindCharacterArc:
		var c store.CharacterArc
		if err = json.Unmarshal(raw, &c); err == nil {
			err = manager.UpdateCharacterArc(&c)
		}
	case store.KindThread:
		var t store.Thread
		if err = json.Unmarshal(raw, &t); err == nil {
			err = manager.UpdateThread(&t)
		}
	default:
		return errorResult("unknown kind: " + args[0].String())
	}
	if err != nil {
		return errorResult(err.Error())
	}
	return successResult("updated")
}

// deleteEntity: [kind string, id string]
func deleteEntity(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: kind, id")
	}
	id := args[1].String()

	var err error
	switch store.Kind(args[0].String()) {
	case store.KindArc:
		err = db.DeleteArc(id)
	case store.KindBeat:
		err = db.DeleteBeat(id)
	case store.KindScene:
		err = db.DeleteScene(id)
	case store.KindCharacterArc:
		err = db.DeleteCharacterArc(id)
	case store.KindThread:
		err = db.DeleteThread(id)
	default:
		return errorResult("unknown kind: " + args[0].String())
	}
	if err != nil {
		return errorResult(err.Error())
	}
	return successResult("deleted")
}

// reorder: [kind string, planId string, orderedIdsJSON string]
func reorder(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return errorResult("requires 3 args: kind, planId, orderedIdsJSON")
	}
	var ids []string
	if err := json.Unmarshal([]byte(args[2].String()), &ids); err != nil {
		return errorResult("invalid ids json: " + err.Error())
	}
	if err := manager.Reorder(store.Kind(args[0].String()), args[1].String(), ids); err != nil {
		return errorResult(err.Error())
	}
	return successResult("reordered")
}

// toggle: [setJSON string, id string]
// Pure symmetric difference; returns the new set.
func toggle(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: setJSON, id")
	}
	var set []string
	if err := json.Unmarshal([]byte(args[0].String()), &set); err != nil {
		return errorResult("invalid set json: " + err.Error())
	}
	return jsonResult(relation.Toggle(set, args[1].String()))
}

// =============================================================================
// Analytics
// =============================================================================

// progress: [planId string]
func progress(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: planId")
	}
	report, err := analysis.Progress(db, args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(report)
}

// unresolvedThreads: [planId string]
func unresolvedThreads(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: planId")
	}
	threads, err := analysis.UnresolvedThreads(db, args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(threads)
}

// pacingAnalysis: [planId string]
func pacingAnalysis(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: planId")
	}
	scenes, err := db.ListScenesByPlan(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(analysis.PacingAnalysis(scenes))
}

// timeline: [planId string]
func timeline(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errorResult("requires 1 arg: planId")
	}
	planID := args[0].String()
	scenes, err := db.ListScenesByPlan(planID)
	if err != nil {
		return errorResult(err.Error())
	}
	beats, err := db.ListBeatsByPlan(planID)
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(analysis.TimelinePositions(scenes, beats))
}

// currentBeat: [planId string, chapterId string]
// Returns null when the plan has no beats.
func currentBeat(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: planId, chapterId")
	}
	beat, err := analysis.CurrentBeatForChapter(db, args[0].String(), args[1].String())
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(beat)
}

// =============================================================================
// Suggestions
// =============================================================================

// jsBridgeClient adapts a synchronous JS callback to the LLM client
// surface. The callback receives (userPrompt, systemPrompt) and must
// return the raw model reply as a string.
type jsBridgeClient struct {
	fn js.Value
}

func (c *jsBridgeClient) Complete(userPrompt, systemPrompt string) (string, error) {
	result := c.fn.Invoke(userPrompt, systemPrompt)
	if result.Type() != js.TypeString {
		return "", errors.New("suggest bridge returned a non-string")
	}
	return result.String(), nil
}

// setSuggestBridge: [fn function]
// Installs the host's completion callback.
func setSuggestBridge(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return errorResult("requires 1 arg: completion function")
	}
	suggester = suggest.NewSuggester(&jsBridgeClient{fn: args[0]})
	return successResult("bridge installed")
}

// suggestBeat: [beatId string]
func suggestBeat(this js.Value, args []js.Value) interface{} {
	if suggester == nil {
		return errorResult("suggest bridge not installed")
	}
	if len(args) < 1 {
		return errorResult("requires 1 arg: beatId")
	}
	beat, err := db.GetBeat(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	p, err := db.GetPlan(beat.PlanID)
	if err != nil {
		return errorResult(err.Error())
	}
	siblings, err := db.ListBeatsByPlan(beat.PlanID)
	if err != nil {
		return errorResult(err.Error())
	}
	out, err := suggester.SuggestBeat(p, beat, siblings)
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(out)
}

// suggestArc: [arcId string]
func suggestArc(this js.Value, args []js.Value) interface{} {
	if suggester == nil {
		return errorResult("suggest bridge not installed")
	}
	if len(args) < 1 {
		return errorResult("requires 1 arg: arcId")
	}
	arc, err := db.GetArc(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	p, err := db.GetPlan(arc.PlanID)
	if err != nil {
		return errorResult(err.Error())
	}
	out, err := suggester.SuggestArc(p, arc)
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(out)
}

// suggestThreadPayoff: [threadId string]
func suggestThreadPayoff(this js.Value, args []js.Value) interface{} {
	if suggester == nil {
		return errorResult("suggest bridge not installed")
	}
	if len(args) < 1 {
		return errorResult("requires 1 arg: threadId")
	}
	thread, err := db.GetThread(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	p, err := db.GetPlan(thread.PlanID)
	if err != nil {
		return errorResult(err.Error())
	}
	out, err := suggester.SuggestThreadPayoff(p, thread)
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(out)
}

// =============================================================================
// Characters & mentions
// =============================================================================

// resolveCharacter: [id string]
// Returns the display name; misses resolve to the documented
// placeholder, never an error.
func resolveCharacter(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return characters.UnknownName
	}
	return characters.ResolveName(lookup, args[0].String())
}

// scanMentions: [text string]
// Returns mention spans for the loaded cast.
func scanMentions(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return "[]"
	}
	return jsonResult(dictionary.Scan(args[0].String()))
}

// suggestPresent: [sceneId string, text string]
// Returns character ids mentioned in text but missing from the scene's
// present set.
func suggestPresent(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: sceneId, text")
	}
	scene, err := db.GetScene(args[0].String())
	if err != nil {
		return errorResult(err.Error())
	}
	return jsonResult(dictionary.SuggestPresent(scene, args[1].String()))
}

// =============================================================================
// Scene recall
// =============================================================================

// initRecall initializes the IndexedDB-backed embedding store.
// Args: [] (uses default "goplanner" DB and "recall.bin" path)
func initRecall(this js.Value, args []js.Value) interface{} {
	fs, err := indexeddb.NewFS(context.Background(), "goplanner", indexeddb.Options{})
	if err != nil {
		return errorResult("failed to create idb fs: " + err.Error())
	}
	recallStore, err = recall.NewStore(fs, "recall.bin")
	if err != nil {
		return errorResult("failed to load recall store: " + err.Error())
	}
	return successResult("recall store initialized")
}

// addEmbedding: [sceneId string, vectorJSON string]
func addEmbedding(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: sceneId, vectorJSON")
	}
	if recallStore == nil {
		return errorResult("recall store not initialized")
	}
	var vec []float32
	if err := json.Unmarshal([]byte(args[1].String()), &vec); err != nil {
		return errorResult("invalid vector json: " + err.Error())
	}
	if err := recallStore.Add(args[0].String(), vec); err != nil {
		return errorResult("add failed: " + err.Error())
	}
	return successResult("added")
}

// searchSimilar: [vectorJSON string, k int]
// Returns: JSON array of scene ids, closest first.
func searchSimilar(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return errorResult("requires 2 args: vectorJSON, k")
	}
	if recallStore == nil {
		return errorResult("recall store not initialized")
	}
	var vec []float32
	if err := json.Unmarshal([]byte(args[0].String()), &vec); err != nil {
		return errorResult("invalid vector json: " + err.Error())
	}
	ids, err := recallStore.Search(vec, args[1].Int())
	if err != nil {
		return errorResult("search failed: " + err.Error())
	}
	return jsonResult(ids)
}

// saveRecall persists the embedding index to IndexedDB
func saveRecall(this js.Value, args []js.Value) interface{} {
	if recallStore == nil {
		return errorResult("recall store not initialized")
	}
	if err := recallStore.Save(); err != nil {
		return errorResult("save failed: " + err.Error())
	}
	return successResult("saved")
}

// =============================================================================
// Result helpers
// =============================================================================

func jsonResult(v interface{}) interface{} {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return errorResult(err.Error())
	}
	return string(jsonBytes)
}

// Helper: Create error result
func errorResult(msg string) interface{} {
	result := map[string]interface{}{
		"error": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}

// Helper: Create success result
func successResult(msg string) interface{} {
	result := map[string]interface{}{
		"success": msg,
	}
	jsonBytes, _ := json.Marshal(result)
	return string(jsonBytes)
}
