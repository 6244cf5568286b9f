package viewer

import (
	"log/slog"

	"github.com/plus3/rtsviewer/animation"
	"github.com/plus3/rtsviewer/ecs"
)

// AnimationAttachmentSystem starts clip 0 of the registry, looping from the
// beginning, on every entity that newly gained an AnimationPlayer, and gives
// it the shared graph and its own transitions. Each entity is claimed once;
// claims are keyed by EntityRef so they survive archetype moves.
type AnimationAttachmentSystem struct {
	Players ecs.Added[animation.AnimationPlayer]

	animations *Animations
	playback   Playback
	claimed    map[*ecs.EntityRef]struct{}
	logger     *slog.Logger
}

func NewAnimationAttachmentSystem(animations *Animations, playback Playback, logger *slog.Logger) *AnimationAttachmentSystem {
	if playback == nil {
		playback = TransitionsPlayback{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AnimationAttachmentSystem{
		animations: animations,
		playback:   playback,
		claimed:    make(map[*ecs.EntityRef]struct{}),
		logger:     logger,
	}
}

func (s *AnimationAttachmentSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Players.Len() == 0 {
		return
	}
	s.forgetDeleted()

	for id, player := range s.Players.Iter() {
		ref := frame.Storage.CreateEntityRef(id)
		if _, ok := s.claimed[ref]; ok {
			continue
		}
		s.claimed[ref] = struct{}{}

		node := s.animations.Clip(0)
		transitions := s.playback.Start(player, node, 0, animation.Forever)
		frame.Commands.AddComponent(id, animation.AnimationGraphHandle{Handle: s.animations.Graph()})
		frame.Commands.AddComponent(id, transitions)
		s.logger.Debug("animation attached", "entity", uint64(id), "node", int(node))
	}
}

// Claimed returns the refs of the claimed entities that still exist.
func (s *AnimationAttachmentSystem) Claimed() []*ecs.EntityRef {
	refs := make([]*ecs.EntityRef, 0, len(s.claimed))
	for ref := range s.claimed {
		if ref.Alive() {
			refs = append(refs, ref)
		}
	}
	return refs
}

// IsClaimed reports whether the entity ref was claimed.
func (s *AnimationAttachmentSystem) IsClaimed(ref *ecs.EntityRef) bool {
	_, ok := s.claimed[ref]
	return ok
}

func (s *AnimationAttachmentSystem) forgetDeleted() {
	for ref := range s.claimed {
		if !ref.Alive() {
			delete(s.claimed, ref)
		}
	}
}
