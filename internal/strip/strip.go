// Package strip is an in-memory scroll container. Children are laid out along
// one axis, may be translated or hidden, and scroll or scrollend
// notifications are queued until Dispatch delivers them.
package strip

import (
	"math"
	"time"

	"reel/internal/domain"
)

// DefaultSpeed is how far a smooth scroll travels per second, in container
// lengths
const DefaultSpeed = 6.0

// EventSink receives queued scroll notifications
type EventSink interface {
	HandleScroll()
	HandleScrollEnd()
}

type eventKind int

const (
	eventScroll eventKind = iota
	eventScrollEnd
)

type animation struct {
	target float64
}

// Strip is a virtual scroll container along a single axis
type Strip struct {
	nodes           []*Node
	containerLength float64
	scroll          float64
	attrs           domain.Attributes
	anim            *animation
	pending         []eventKind
	sink            EventSink
	reverse         bool
	speed           float64
	dirty           bool
}

// New creates an empty strip with the given viewport length
func New(containerLength float64) *Strip {
	return &Strip{containerLength: containerLength, speed: DefaultSpeed, dirty: true}
}

// SetSink sets who receives Dispatch'd events
func (s *Strip) SetSink(sink EventSink) {
	s.sink = sink
}

// SetReverse mirrors the strip for right-to-left layouts. Incoming
// translations are negated so callers can work in logical coordinates.
func (s *Strip) SetReverse(reverse bool) {
	s.reverse = reverse
}

// Reverse reports whether the strip is mirrored
func (s *Strip) Reverse() bool {
	return s.reverse
}

// SetSpeed sets the smooth scroll speed in container lengths per second
func (s *Strip) SetSpeed(speed float64) {
	if speed > 0 {
		s.speed = speed
	}
}

// SetContainerLength resizes the viewport
func (s *Strip) SetContainerLength(length float64) {
	s.containerLength = length
	s.dirty = true
}

// ContainerLength returns the viewport length
func (s *Strip) ContainerLength() float64 {
	return s.containerLength
}

// AppendSlide adds a slide node at the end of the strip
func (s *Strip) AppendSlide(length float64, payload any) *Node {
	n := &Node{Length: length, Payload: payload}
	s.Append(n)
	return n
}

// RemoveSlides drops every slide node, leaving spacers alone
func (s *Strip) RemoveSlides() {
	kept := s.nodes[:0]
	for _, n := range s.nodes {
		if n.Spacer {
			kept = append(kept, n)
		}
	}
	for i := len(kept); i < len(s.nodes); i++ {
		s.nodes[i] = nil
	}
	s.nodes = kept
	s.dirty = true
}

// SetLength resizes a node
func (s *Strip) SetLength(el any, length float64) {
	if n := s.node(el); n != nil {
		n.Length = length
		s.dirty = true
	}
}

// Nodes returns the children in layout order
func (s *Strip) Nodes() []*Node {
	s.layout()
	return s.nodes
}

// Attributes returns what the carousel last told the strip
func (s *Strip) Attributes() domain.Attributes {
	return s.attrs
}

// SetAttributes records container settings
func (s *Strip) SetAttributes(attrs domain.Attributes) {
	s.attrs = attrs
}

// Dimension returns the node's extent relative to the viewport start.
// Hidden nodes report a zero dimension.
func (s *Strip) Dimension(_ domain.Axis, el any) domain.Dimension {
	n := s.node(el)
	if n == nil || n.Hidden {
		return domain.Dimension{}
	}
	s.layout()
	start := n.VisualStart() - s.scroll
	return domain.Dimension{Start: start, End: start + n.Length, Length: n.Length}
}

// ContainerDimension returns the viewport's own extent
func (s *Strip) ContainerDimension(_ domain.Axis) domain.Dimension {
	return domain.Dimension{Start: 0, End: s.containerLength, Length: s.containerLength}
}

// ScrollPosition returns the current scroll offset
func (s *Strip) ScrollPosition(_ domain.Axis) float64 {
	s.layout()
	return s.scroll
}

// ScrollLength returns the total scrollable length
func (s *Strip) ScrollLength(_ domain.Axis) float64 {
	s.layout()
	return s.extent()
}

// MaxScroll is the largest reachable scroll offset
func (s *Strip) MaxScroll() float64 {
	s.layout()
	return s.maxScroll()
}

// SetScrollPosition jumps to pos. Only a scroll notification is queued, and
// only when the position actually changed.
func (s *Strip) SetScrollPosition(_ domain.Axis, pos float64) {
	s.anim = nil
	s.moveTo(pos)
}

// SetTranslation shifts a node along the axis without affecting flow
func (s *Strip) SetTranslation(_ domain.Axis, el any, delta float64) {
	n := s.node(el)
	if n == nil {
		return
	}
	if s.reverse {
		delta = -delta
	}
	n.Translate = delta
	s.dirty = true
}

// ScrollIntoView brings the node to the requested alignment. A smooth scroll
// progresses through Step; an instant one queues scroll and scrollend.
func (s *Strip) ScrollIntoView(el any, _ domain.Axis, align domain.Alignment, smooth bool) {
	n := s.node(el)
	if n == nil || n.Hidden {
		return
	}
	s.layout()
	target := s.clamp(s.alignedOffset(n, align))
	if smooth {
		if target == s.scroll {
			s.anim = nil
			return
		}
		s.anim = &animation{target: target}
		return
	}
	s.anim = nil
	if s.moveTo(target) {
		s.queue(eventScrollEnd)
	}
}

// CreateSpacer makes a detached spacer node
func (s *Strip) CreateSpacer(_ domain.Axis, length float64) any {
	return &Node{Length: length, Spacer: true}
}

// InsertBefore places el ahead of ref, or at the end when ref is absent
func (s *Strip) InsertBefore(el, ref any) {
	n := s.node(el)
	if n == nil {
		return
	}
	s.detach(n)
	idx := s.indexOf(s.node(ref))
	if idx < 0 {
		s.nodes = append(s.nodes, n)
	} else {
		s.nodes = append(s.nodes, nil)
		copy(s.nodes[idx+1:], s.nodes[idx:])
		s.nodes[idx] = n
	}
	s.dirty = true
}

// Append places el at the end of the strip
func (s *Strip) Append(el any) {
	s.InsertBefore(el, nil)
}

// Remove detaches el
func (s *Strip) Remove(el any) {
	if n := s.node(el); n != nil {
		s.detach(n)
		s.dirty = true
	}
}

// SetHidden takes a node out of layout or puts it back
func (s *Strip) SetHidden(el any, hidden bool) {
	if n := s.node(el); n != nil && n.Hidden != hidden {
		n.Hidden = hidden
		s.dirty = true
	}
}

// SetSnap marks whether a node is a snap target and how it aligns
func (s *Strip) SetSnap(el any, align domain.Alignment, snap bool) {
	if n := s.node(el); n != nil {
		n.Snap = snap
		n.SnapAlign = align
	}
}

// ScrollBy moves the viewport as a direct user gesture would
func (s *Strip) ScrollBy(delta float64) {
	s.anim = nil
	if s.reverse {
		delta = -delta
	}
	s.moveTo(s.scroll + delta)
}

// Release ends a gesture. With snapping on, the strip glides to the nearest
// snap point; otherwise scrollend is queued right away.
func (s *Strip) Release() {
	s.layout()
	if s.attrs.Snap {
		if target, ok := s.nearestSnap(); ok && target != s.scroll {
			s.anim = &animation{target: target}
			return
		}
	}
	s.anim = nil
	s.queue(eventScrollEnd)
}

// Animating reports whether a smooth scroll is in flight
func (s *Strip) Animating() bool {
	return s.anim != nil
}

// Step advances a smooth scroll by dt. It reports whether the animation is
// still running afterwards.
func (s *Strip) Step(dt time.Duration) bool {
	if s.anim == nil {
		return false
	}
	s.layout()
	target := s.clamp(s.anim.target)
	travel := s.speed * s.containerLength * dt.Seconds()
	if travel <= 0 {
		travel = 1
	}
	remaining := target - s.scroll
	if math.Abs(remaining) <= travel {
		s.anim = nil
		s.moveTo(target)
		s.queue(eventScrollEnd)
		return false
	}
	if remaining > 0 {
		s.moveTo(s.scroll + travel)
	} else {
		s.moveTo(s.scroll - travel)
	}
	return true
}

// HasPending reports whether any notification is waiting for Dispatch
func (s *Strip) HasPending() bool {
	return len(s.pending) > 0
}

// Dispatch delivers the oldest queued notification. It reports whether
// there was one to deliver.
func (s *Strip) Dispatch() bool {
	if len(s.pending) == 0 {
		return false
	}
	e := s.pending[0]
	s.pending = s.pending[1:]
	if s.sink == nil {
		return true
	}
	switch e {
	case eventScroll:
		s.sink.HandleScroll()
	case eventScrollEnd:
		s.sink.HandleScrollEnd()
	}
	return true
}

func (s *Strip) node(el any) *Node {
	n, _ := el.(*Node)
	return n
}

func (s *Strip) indexOf(n *Node) int {
	if n == nil {
		return -1
	}
	for i, c := range s.nodes {
		if c == n {
			return i
		}
	}
	return -1
}

func (s *Strip) detach(n *Node) {
	if i := s.indexOf(n); i >= 0 {
		s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
	}
}

// layout recomputes flow positions and keeps the scroll offset in range
func (s *Strip) layout() {
	if !s.dirty {
		return
	}
	s.dirty = false
	pos := 0.0
	for _, n := range s.nodes {
		n.flowStart = pos
		if !n.Hidden {
			pos += n.Length
		}
	}
	s.scroll = s.clamp(s.scroll)
}

func (s *Strip) extent() float64 {
	end := 0.0
	for _, n := range s.nodes {
		if !n.Hidden && n.VisualEnd() > end {
			end = n.VisualEnd()
		}
	}
	return end
}

func (s *Strip) maxScroll() float64 {
	return math.Max(0, s.extent()-s.containerLength)
}

func (s *Strip) clamp(pos float64) float64 {
	return math.Min(math.Max(pos, 0), s.maxScroll())
}

func (s *Strip) alignedOffset(n *Node, align domain.Alignment) float64 {
	if align == domain.AlignCenter {
		return n.VisualStart() + n.Length/2 - s.containerLength/2
	}
	return n.VisualStart()
}

func (s *Strip) nearestSnap() (float64, bool) {
	best, found := 0.0, false
	for _, n := range s.nodes {
		if n.Hidden || !n.Snap {
			continue
		}
		p := s.clamp(s.alignedOffset(n, n.SnapAlign))
		if !found || math.Abs(p-s.scroll) < math.Abs(best-s.scroll) {
			best, found = p, true
		}
	}
	return best, found
}

// moveTo sets the scroll offset and queues a scroll notification when it
// changed
func (s *Strip) moveTo(pos float64) bool {
	s.layout()
	pos = s.clamp(pos)
	if pos == s.scroll {
		return false
	}
	s.scroll = pos
	s.queue(eventScroll)
	return true
}

// queue adds a notification, coalescing back-to-back scrolls
func (s *Strip) queue(kind eventKind) {
	if kind == eventScroll && len(s.pending) > 0 && s.pending[len(s.pending)-1] == eventScroll {
		return
	}
	s.pending = append(s.pending, kind)
}
