package history

import (
	"fmt"
	"runtime/debug"
	"slices"

	"go.uber.org/zap"
)

// DefaultCapacity is used when no capacity option is given.
const DefaultCapacity = 1000

// Option configures a History.
type Option func(*options)

type options struct {
	capacity int
	logger   *zap.Logger
	registry *NameRegistry
	resolver NameResolver
}

// WithCapacity sets the initial capacity. Non-positive values make New fail.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNameRegistry adds a type-to-name registry to the naming chain.
func WithNameRegistry(r *NameRegistry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithNameResolver replaces the whole naming chain.
func WithNameResolver(r NameResolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// History records executed commands and replays them backwards and
// forwards through a Strategy.
type History[C comparable] struct {
	// past holds executed commands. The newest has the highest index.
	past []C
	// future holds undone commands. The one closest to the present has
	// index 0, the most distant the highest index.
	future []C

	base        C
	descriptors map[C]*Descriptor[C]

	strategy Strategy[C]
	notifier Notifier[C]
	names    NameResolver
	capacity int
	logger   *zap.Logger
}

// New creates a history. The base command is requested from the strategy
// once, here.
func New[C comparable](strategy Strategy[C], notifier Notifier[C], opts ...Option) (*History[C], error) {
	if strategy == nil {
		return nil, ErrNilStrategy
	}
	if notifier == nil {
		return nil, ErrNilNotifier
	}

	o := options{
		capacity: DefaultCapacity,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, o.capacity)
	}
	if o.resolver == nil {
		o.resolver = DefaultResolver(o.registry)
	}

	var zero C
	base := strategy.BaseCommand()
	if base == zero {
		return nil, fmt.Errorf("base command: %w", ErrNilCommand)
	}

	h := &History[C]{
		base:        base,
		descriptors: make(map[C]*Descriptor[C]),
		strategy:    strategy,
		notifier:    notifier,
		names:       o.resolver,
		capacity:    o.capacity,
		logger:      o.logger,
	}
	h.descriptors[base] = newDescriptor(base, h.names.Resolve(base), true)
	return h, nil
}

// Capacity returns the maximum number of past and future commands kept.
func (h *History[C]) Capacity() int {
	return h.capacity
}

// SetCapacity changes the capacity. It does not trim the buffers; the next
// Execute or an explicit Discard does.
func (h *History[C]) SetCapacity(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidCapacity, n)
	}
	h.capacity = n
	return nil
}

// PastCount returns the number of undoable commands, excluding the base
// command.
func (h *History[C]) PastCount() int {
	return len(h.past)
}

// FutureCount returns the number of redoable commands.
func (h *History[C]) FutureCount() int {
	return len(h.future)
}

// HasPast reports whether anything can be undone.
func (h *History[C]) HasPast() bool {
	return len(h.past) > 0
}

// HasFuture reports whether anything can be redone.
func (h *History[C]) HasFuture() bool {
	return len(h.future) > 0
}

// BaseCommand returns the base command.
func (h *History[C]) BaseCommand() C {
	return h.base
}

// Base returns the base command's descriptor.
func (h *History[C]) Base() *Descriptor[C] {
	return h.descriptors[h.base]
}

// Execute runs cmd through the strategy and records it. On failure the
// history is unchanged and an *ExecutionError is returned. On success the
// future buffer is forgotten, so an undone command may be executed again.
func (h *History[C]) Execute(cmd C) error {
	var zero C
	if cmd == zero {
		return ErrNilCommand
	}
	if d, exists := h.descriptors[cmd]; exists && !d.IsFuture() {
		return ErrDuplicateCommand
	}

	name := h.names.Resolve(cmd)
	if err := guard(func() error { return h.strategy.Execute(cmd) }); err != nil {
		h.logger.Debug("command execution failed", zap.String("command", name), zap.Error(err))
		return &ExecutionError{Command: name, Err: err}
	}

	for _, f := range h.future {
		h.forget(f)
	}
	h.future = nil

	h.descriptors[cmd] = newDescriptor(cmd, name, false)
	h.past = append(h.past, cmd)
	h.discard()

	h.notify(Executed)
	return nil
}

// Undo reverses the newest past command. It is a no-op when there is
// nothing to undo. A strategy failure wipes the history and returns a
// *ReplayError.
func (h *History[C]) Undo() error {
	if len(h.past) == 0 {
		return nil
	}
	if err := h.undoStep(); err != nil {
		return err
	}
	h.notify(Replayed)
	return nil
}

// Redo replays the nearest future command. It is a no-op when there is
// nothing to redo. A strategy failure wipes the history and returns a
// *ReplayError.
func (h *History[C]) Redo() error {
	if len(h.future) == 0 {
		return nil
	}
	if err := h.redoStep(); err != nil {
		return err
	}
	h.notify(Replayed)
	return nil
}

// JumpTo moves the history to the point described by d:
//   - the base descriptor undoes everything;
//   - a future descriptor redoes up to and including its command;
//   - a past descriptor undoes until its command is the newest past one.
//
// Every intermediate command goes through the strategy. One Replayed
// notification is posted for the whole jump.
func (h *History[C]) JumpTo(d *Descriptor[C]) error {
	if err := h.owns(d); err != nil {
		return err
	}

	switch {
	case d.IsBase():
		for len(h.past) > 0 {
			if err := h.undoStep(); err != nil {
				return err
			}
		}
	case d.IsFuture():
		for {
			cmd := h.future[0]
			if err := h.redoStep(); err != nil {
				return err
			}
			if d.Accepts(cmd) {
				break
			}
		}
	default:
		for !d.Accepts(h.past[len(h.past)-1]) {
			if err := h.undoStep(); err != nil {
				return err
			}
		}
	}

	h.notify(Replayed)
	return nil
}

// UndoUntil calls Undo until the command described by d has been undone.
// The base descriptor undoes everything. Each step posts its own
// notification.
func (h *History[C]) UndoUntil(d *Descriptor[C]) error {
	if err := h.owns(d); err != nil {
		return err
	}
	if d.IsFuture() {
		return fmt.Errorf("undo until %q: %w", d.Name(), ErrInvalidTarget)
	}

	for len(h.past) > 0 {
		cmd := h.past[len(h.past)-1]
		if err := h.Undo(); err != nil {
			return err
		}
		if d.Accepts(cmd) {
			break
		}
	}
	return nil
}

// RedoUntil calls Redo until the command described by d has been redone.
// Each step posts its own notification.
func (h *History[C]) RedoUntil(d *Descriptor[C]) error {
	if err := h.owns(d); err != nil {
		return err
	}
	if !d.IsFuture() {
		return fmt.Errorf("redo until %q: %w", d.Name(), ErrInvalidTarget)
	}

	for len(h.future) > 0 {
		cmd := h.future[0]
		if err := h.Redo(); err != nil {
			return err
		}
		if d.Accepts(cmd) {
			break
		}
	}
	return nil
}

// Discard trims the buffers to the capacity and posts a Changed
// notification.
func (h *History[C]) Discard() {
	h.discard()
	h.notify(Changed)
}

// Clear forgets every command except the base one and posts a Changed
// notification. The model is not touched.
func (h *History[C]) Clear() {
	h.reset()
	h.notify(Changed)
}

// History returns descriptors in chronological order: the base command,
// past commands oldest to newest, then future commands nearest to most
// distant. The slice is new on every call; the descriptors are shared.
func (h *History[C]) History() []*Descriptor[C] {
	list := make([]*Descriptor[C], 0, len(h.past)+len(h.future)+1)
	list = append(list, h.descriptors[h.base])
	for _, cmd := range h.past {
		list = append(list, h.descriptors[cmd])
	}
	for _, cmd := range h.future {
		list = append(list, h.descriptors[cmd])
	}
	return list
}

// Describe returns the descriptor of a recorded command.
func (h *History[C]) Describe(cmd C) (*Descriptor[C], bool) {
	d, ok := h.descriptors[cmd]
	return d, ok
}

// Current returns the descriptor of the present point: the newest past
// command, or the base command when nothing is undoable.
func (h *History[C]) Current() *Descriptor[C] {
	if len(h.past) == 0 {
		return h.descriptors[h.base]
	}
	return h.descriptors[h.past[len(h.past)-1]]
}

// PeekUndo returns the descriptor Undo would reverse.
func (h *History[C]) PeekUndo() (*Descriptor[C], bool) {
	if len(h.past) == 0 {
		return nil, false
	}
	return h.descriptors[h.past[len(h.past)-1]], true
}

// PeekRedo returns the descriptor Redo would replay.
func (h *History[C]) PeekRedo() (*Descriptor[C], bool) {
	if len(h.future) == 0 {
		return nil, false
	}
	return h.descriptors[h.future[0]], true
}

// undoStep moves the newest past command to the front of the future
// buffer. The caller guarantees the past buffer is not empty.
func (h *History[C]) undoStep() error {
	cmd := h.past[len(h.past)-1]
	h.past = slices.Delete(h.past, len(h.past)-1, len(h.past))

	if err := guard(func() error { return h.strategy.Undo(cmd) }); err != nil {
		return h.fail(OpUndo, cmd, err)
	}

	h.future = slices.Insert(h.future, 0, cmd)
	h.descriptors[cmd].future = true
	return nil
}

// redoStep moves the front of the future buffer to the end of the past
// buffer. The caller guarantees the future buffer is not empty.
func (h *History[C]) redoStep() error {
	cmd := h.future[0]
	h.future = slices.Delete(h.future, 0, 1)

	if err := guard(func() error { return h.strategy.Redo(cmd) }); err != nil {
		return h.fail(OpRedo, cmd, err)
	}

	h.past = append(h.past, cmd)
	h.descriptors[cmd].future = false
	return nil
}

// fail wipes the history after a replay failure, tells observers, and
// builds the error returned to the caller.
func (h *History[C]) fail(op ReplayOp, cmd C, err error) error {
	name := h.names.Resolve(cmd)
	if d, ok := h.descriptors[cmd]; ok {
		name = d.Name()
	}

	h.logger.Warn("replay failed, history cleared",
		zap.Stringer("op", op),
		zap.String("command", name),
		zap.Int("past", len(h.past)),
		zap.Int("future", len(h.future)),
		zap.Error(err),
	)

	h.forget(cmd)
	h.reset()
	h.notify(Changed)
	return &ReplayError{Op: op, Command: name, Err: err}
}

// discard forgets commands beyond the capacity: the oldest past command
// first, the most distant future command when the past is empty.
//
// Buffers shrink with slices.Delete, which zeroes the vacated slots, so a
// forgotten command is not kept alive by a backing array. The same holds in
// undoStep and redoStep.
func (h *History[C]) discard() {
	for len(h.past)+len(h.future) > h.capacity {
		var removed C
		if len(h.past) == 0 {
			removed = h.future[len(h.future)-1]
			h.future = slices.Delete(h.future, len(h.future)-1, len(h.future))
		} else {
			removed = h.past[0]
			h.past = slices.Delete(h.past, 0, 1)
		}
		h.logger.Debug("command discarded",
			zap.String("command", h.descriptors[removed].Name()),
			zap.Int("capacity", h.capacity),
		)
		h.forget(removed)
	}
}

// reset empties both buffers, keeping only the base descriptor.
func (h *History[C]) reset() {
	for _, cmd := range h.past {
		h.forget(cmd)
	}
	for _, cmd := range h.future {
		h.forget(cmd)
	}
	h.past = nil
	h.future = nil
}

func (h *History[C]) forget(cmd C) {
	if cmd == h.base {
		return
	}
	if d, ok := h.descriptors[cmd]; ok {
		d.release()
		delete(h.descriptors, cmd)
	}
}

// owns checks that d is a live descriptor of this history.
func (h *History[C]) owns(d *Descriptor[C]) error {
	if d == nil || d.Released() {
		return ErrUnknownDescriptor
	}
	if h.descriptors[d.cmd] != d {
		return ErrUnknownDescriptor
	}
	return nil
}

func (h *History[C]) notify(kind Kind) {
	h.notifier.Notify(Notification[C]{Kind: kind, History: h})
}

// guard runs a strategy call, turning a panic into a *PanicError.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: string(debug.Stack())}
		}
	}()
	return fn()
}
