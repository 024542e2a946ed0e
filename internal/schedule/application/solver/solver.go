// Package solver places flexible tasks into a day around fixed blocks,
// maximizing a weighted priority/energy/earliness objective subject to
// no-overlap and dependency constraints. No example repo in this codebase's
// ancestry links against a constraint-programming or ILP engine, so this is
// a from-scratch branch-and-bound search rather than a call into CP-SAT;
// SPEC_FULL.md §4.5.1 gives the equivalence argument.
package solver

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of a Solve call.
type Status string

const (
	Optimal  Status = "OPTIMAL"
	Feasible Status = "FEASIBLE"
	NoResult Status = "NO_SOLUTION"
)

// ErrNoSolution is returned when the search finds no feasible assignment at
// all before the time limit or context deadline.
var ErrNoSolution = errors.New("solver: no feasible solution found")

// Task is one flexible unit the solver may place.
type Task struct {
	ID            uuid.UUID
	DurationMinutes int
	Priority      int // 1..5
	Energy        int // 1..3
	EarliestStart int // minutes from midnight, domain lower bound before day-window clamp
	LatestEnd     int // minutes from midnight, domain upper bound before day-window clamp
	Dependencies  []uuid.UUID
}

// FixedInterval is an already-occupied block the solver must route around
// (calendar fixed events, sleep blocks injected by the caller).
type FixedInterval struct {
	StartMinutes int
	EndMinutes   int
}

// Weights are the integer objective coefficients; all integral so the
// objective itself stays integral.
type Weights struct {
	Priority     int
	Energy       int
	StartPenalty int
}

// DefaultWeights mirrors the legacy priority=10/energy=5/start_penalty=1 tuning.
func DefaultWeights() Weights {
	return Weights{Priority: 10, Energy: 5, StartPenalty: 1}
}

// Input is everything one Solve call needs.
type Input struct {
	DayStart      int
	DayEnd        int
	Tasks         []Task
	FixedIntervals []FixedInterval
	EnergyPattern [24]float64 // hour -> [0,1]
	TimeLimit     int         // seconds; a branch-and-bound node-count ceiling also bounds search time
	Weights       Weights
}

// ScheduledTask is one placed task in the result.
type ScheduledTask struct {
	TaskID       uuid.UUID
	StartMinutes int
	EndMinutes   int
}

// Result is the outcome of Solve.
type Result struct {
	Status   Status
	Tasks    []ScheduledTask // sorted by start
	Dropped  []DroppedTask
	Objective int
}

// DroppedTask records a task the solver could not place and why.
type DroppedTask struct {
	TaskID uuid.UUID
	Reason string
}

// energyMatchTable[hour][energy-1] = round(100*(1-|userEnergy[hour]-energy/3|)).
type energyMatchTable [24][3]int

func buildEnergyMatchTable(pattern [24]float64) energyMatchTable {
	var table energyMatchTable
	for h := 0; h < 24; h++ {
		for e := 1; e <= 3; e++ {
			diff := pattern[h] - float64(e)/3.0
			if diff < 0 {
				diff = -diff
			}
			table[h][e-1] = round(100 * (1 - diff))
		}
	}
	return table
}

func round(v float64) int {
	if v >= 0 {
		return int(v + 0.5)
	}
	return -int(-v + 0.5)
}

// Solver places tasks; it is instantiated per call and carries no mutable
// fields beyond its configuration, so re-entrancy across concurrent calls is
// structural rather than lock-mediated.
type Solver struct{}

// New builds a Solver.
func New() *Solver { return &Solver{} }

type solverTask struct {
	original     Task
	domainLow    int
	domainHigh   int // latest permissible start
	depIndices   []int
}

// Solve runs the branch-and-bound search described in this package's doc
// comment. It honors ctx cancellation and input.TimeLimit (wall clock),
// checking both between nodes. Among complete assignments it prefers the
// one that places more tasks, and among those the higher objective.
func (s *Solver) Solve(ctx context.Context, input Input) (Result, error) {
	weights := input.Weights
	if weights == (Weights{}) {
		weights = DefaultWeights()
	}
	energyTable := buildEnergyMatchTable(input.EnergyPattern)

	ordered, dropped := prepareTasks(input)

	var deadline time.Time
	if input.TimeLimit > 0 {
		deadline = time.Now().Add(time.Duration(input.TimeLimit) * time.Second)
	}

	b := &branchAndBound{
		ctx:          ctx,
		deadline:     deadline,
		fixed:        append([]FixedInterval(nil), input.FixedIntervals...),
		tasks:        ordered,
		energyTable:  energyTable,
		weights:      weights,
		bestObjective: -1,
		bestCount:    -1,
		timedOut:     false,
	}
	sort.Slice(b.fixed, func(i, j int) bool { return b.fixed[i].StartMinutes < b.fixed[j].StartMinutes })

	b.search(0, []placement{}, 0)

	if b.bestCount < 0 {
		if len(ordered) == 0 {
			return Result{Status: Optimal, Dropped: dropped}, nil
		}
		return Result{Status: NoResult, Dropped: dropped}, ErrNoSolution
	}

	scheduled := make([]ScheduledTask, 0, len(b.bestPlacement))
	for _, p := range b.bestPlacement {
		scheduled = append(scheduled, ScheduledTask{
			TaskID:       b.tasks[p.taskIndex].original.ID,
			StartMinutes: p.start,
			EndMinutes:   p.start + b.tasks[p.taskIndex].original.DurationMinutes,
		})
	}
	sort.Slice(scheduled, func(i, j int) bool { return scheduled[i].StartMinutes < scheduled[j].StartMinutes })

	for i := range ordered {
		placed := false
		for _, p := range b.bestPlacement {
			if p.taskIndex == i {
				placed = true
				break
			}
		}
		if !placed {
			dropped = append(dropped, DroppedTask{TaskID: ordered[i].original.ID, Reason: "excluded from best found assignment"})
		}
	}

	status := Optimal
	if b.timedOut || b.nodesExplored >= maxNodes {
		status = Feasible
	}

	return Result{Status: status, Tasks: scheduled, Dropped: dropped, Objective: b.bestObjective}, nil
}

// prepareTasks orders tasks by (priority desc, energy desc, id asc), then
// linearizes that order topologically so every task's dependencies precede
// it (search explores taskIndex strictly forward and dependenciesSatisfied
// only looks at earlier indices, so a dependency sorting to a later index
// than its dependent would otherwise be unsatisfiable in every branch).
// It then computes each task's variable domain clamped to the day window,
// resolves intra-batch dependency indices, and drops any task whose domain
// is empty (returned as a DroppedTask). Dependency edges to tasks that are
// not in the batch, or that were dropped for an empty domain, are ignored.
func prepareTasks(input Input) ([]solverTask, []DroppedTask) {
	ordering := append([]Task(nil), input.Tasks...)
	sort.Slice(ordering, func(i, j int) bool {
		if ordering[i].Priority != ordering[j].Priority {
			return ordering[i].Priority > ordering[j].Priority
		}
		if ordering[i].Energy != ordering[j].Energy {
			return ordering[i].Energy > ordering[j].Energy
		}
		return ordering[i].ID.String() < ordering[j].ID.String()
	})

	linear := topoLinearize(ordering)

	var dropped []DroppedTask
	indexByID := make(map[uuid.UUID]int)
	result := make([]solverTask, 0, len(linear))

	for _, t := range linear {
		low := input.DayStart
		if t.EarliestStart > low {
			low = t.EarliestStart
		}
		high := input.DayEnd
		if t.LatestEnd > 0 && t.LatestEnd < high {
			high = t.LatestEnd
		}
		high -= t.DurationMinutes

		if high < low {
			dropped = append(dropped, DroppedTask{TaskID: t.ID, Reason: "empty domain: duration exceeds window"})
			continue
		}

		indexByID[t.ID] = len(result)
		result = append(result, solverTask{original: t, domainLow: low, domainHigh: high})
	}

	for i := range result {
		var depIndices []int
		for _, dep := range result[i].original.Dependencies {
			if idx, ok := indexByID[dep]; ok {
				depIndices = append(depIndices, idx)
			}
		}
		result[i].depIndices = depIndices
	}

	return result, dropped
}

// topoLinearize reorders preferred (priority/energy/id order) into a
// dependency-respecting linear order via DFS postorder: each task's
// dependencies are visited, and therefore appended, before the task itself.
// Among tasks with no ordering constraint between them, the preferred order
// is kept. A cyclic dependency (invalid input; see task.go's acyclic
// invariant) cannot be fully linearized, but the recursion guard below still
// terminates and simply leaves the cycle partially ordered.
func topoLinearize(preferred []Task) []Task {
	byID := make(map[uuid.UUID]Task, len(preferred))
	for _, t := range preferred {
		byID[t.ID] = t
	}

	visited := make(map[uuid.UUID]bool, len(preferred))
	visiting := make(map[uuid.UUID]bool, len(preferred))
	linear := make([]Task, 0, len(preferred))

	var visit func(t Task)
	visit = func(t Task) {
		if visited[t.ID] || visiting[t.ID] {
			return
		}
		visiting[t.ID] = true
		for _, dep := range t.Dependencies {
			if depTask, ok := byID[dep]; ok {
				visit(depTask)
			}
		}
		visiting[t.ID] = false
		visited[t.ID] = true
		linear = append(linear, t)
	}
	for _, t := range preferred {
		visit(t)
	}
	return linear
}

// maxNodes bounds search time independent of wall clock, so tests are
// deterministic without depending on machine speed; the wall-clock deadline
// from Input.TimeLimit and ctx cancellation are checked as well.
const maxNodes = 200000

type placement struct {
	taskIndex int
	start     int
}

type branchAndBound struct {
	ctx           context.Context
	deadline      time.Time
	fixed         []FixedInterval
	tasks         []solverTask
	energyTable   energyMatchTable
	weights       Weights
	bestObjective int
	bestCount     int // tasks placed in bestPlacement; -1 until a leaf is reached
	bestPlacement []placement
	nodesExplored int
	timedOut      bool
}

// search explores task assignments in task-index order (the deterministic,
// dependency-respecting order computed in prepareTasks: priority/energy/id
// preference, topologically linearized so dependencies always precede
// dependents).
func (b *branchAndBound) search(taskIndex int, placed []placement, runningTotal int) {
	if b.timedOut || b.nodesExplored >= maxNodes {
		b.timedOut = true
		return
	}
	select {
	case <-b.ctx.Done():
		b.timedOut = true
		return
	default:
	}
	if !b.deadline.IsZero() && time.Now().After(b.deadline) {
		b.timedOut = true
		return
	}
	b.nodesExplored++

	if taskIndex == len(b.tasks) {
		// More placed tasks wins; the objective breaks ties between equal counts.
		if len(placed) > b.bestCount || (len(placed) == b.bestCount && runningTotal > b.bestObjective) {
			b.bestCount = len(placed)
			b.bestObjective = runningTotal
			b.bestPlacement = append([]placement(nil), placed...)
		}
		return
	}

	// Admissible upper bound: best case for every remaining task (including
	// this one) ignoring overlap, i.e. max possible priority+energy term and
	// zero start penalty. Prune when this branch cannot place more tasks than
	// the best found and, at an equal count, cannot beat its objective.
	bound := runningTotal + b.upperBoundFrom(taskIndex)
	maxCount := len(placed) + len(b.tasks) - taskIndex
	if maxCount < b.bestCount || (maxCount == b.bestCount && bound <= b.bestObjective) {
		return
	}

	// Option 1: skip this task (it remains unplaced in this branch).
	b.search(taskIndex+1, placed, runningTotal)

	// Option 2: place this task at each candidate start.
	t := b.tasks[taskIndex]
	occupied := b.occupiedIntervals(placed)
	for _, start := range candidateStarts(t, occupied) {
		if !b.dependenciesSatisfied(t, placed, start) {
			continue
		}
		end := start + t.original.DurationMinutes
		if overlapsAny(start, end, occupied) {
			continue
		}

		value := b.weights.Priority*t.original.Priority - b.weights.StartPenalty*start
		hour := start / 60
		if hour > 23 {
			hour = 23
		}
		value += b.weights.Energy * b.energyTable[hour][t.original.Energy-1] / 100

		newPlaced := append(append([]placement(nil), placed...), placement{taskIndex: taskIndex, start: start})
		b.search(taskIndex+1, newPlaced, runningTotal+value)
	}
}

// upperBoundFrom computes the best-case remaining objective contribution for
// tasks [from, len(tasks)), ignoring overlap feasibility — an admissible
// bound since it can only overestimate what any real placement achieves.
func (b *branchAndBound) upperBoundFrom(from int) int {
	total := 0
	for i := from; i < len(b.tasks); i++ {
		t := b.tasks[i].original
		best := b.weights.Priority * t.Priority
		bestEnergy := 0
		for h := 0; h < 24; h++ {
			if v := b.energyTable[h][t.Energy-1]; v > bestEnergy {
				bestEnergy = v
			}
		}
		best += b.weights.Energy * bestEnergy / 100
		total += best
	}
	return total
}

func (b *branchAndBound) occupiedIntervals(placed []placement) []FixedInterval {
	occupied := append([]FixedInterval(nil), b.fixed...)
	for _, p := range placed {
		t := b.tasks[p.taskIndex].original
		occupied = append(occupied, FixedInterval{StartMinutes: p.start, EndMinutes: p.start + t.DurationMinutes})
	}
	sort.Slice(occupied, func(i, j int) bool { return occupied[i].StartMinutes < occupied[j].StartMinutes })
	return occupied
}

func overlapsAny(start, end int, occupied []FixedInterval) bool {
	for _, o := range occupied {
		if start < o.EndMinutes && o.StartMinutes < end {
			return true
		}
	}
	return false
}

// dependenciesSatisfied reports whether start respects start_a >= end_b for
// every dependency b already placed in this branch; an unplaced dependency
// means this candidate start cannot be used yet.
func (b *branchAndBound) dependenciesSatisfied(t solverTask, placed []placement, start int) bool {
	for _, depIdx := range t.depIndices {
		found := false
		for _, p := range placed {
			if p.taskIndex == depIdx {
				depEnd := p.start + b.tasks[depIdx].original.DurationMinutes
				if start < depEnd {
					return false
				}
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// candidateStarts returns the domain lower bound, the start of each free gap
// (against occupied) that lies inside the domain, and the domain upper bound.
// A gap start is listed whether or not the task fits there; search rejects
// starts that overlap an occupied interval.
func candidateStarts(t solverTask, occupied []FixedInterval) []int {
	seen := make(map[int]bool)
	var candidates []int
	add := func(v int) {
		if v < t.domainLow || v > t.domainHigh {
			return
		}
		if !seen[v] {
			seen[v] = true
			candidates = append(candidates, v)
		}
	}

	add(t.domainLow)
	add(t.domainHigh)

	cursor := t.domainLow
	for _, o := range occupied {
		if o.StartMinutes > cursor {
			add(cursor)
		}
		if o.EndMinutes > cursor {
			cursor = o.EndMinutes
		}
	}
	add(cursor)

	sort.Ints(candidates)
	return candidates
}
