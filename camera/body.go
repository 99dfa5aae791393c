package camera

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/boxcollider/collision"
	"go.viam.com/boxcollider/logging"
	"go.viam.com/boxcollider/octree"
	"go.viam.com/boxcollider/spatialmath"
)

// body is the collision box a controller sweeps through the world, optionally registered in the
// world as a dynamic element so that others can find it.
type body struct {
	logger  logging.Logger
	box     spatialmath.AABB
	element *collision.BoxElement
	world   *collision.Mesh
	id      octree.ElementID
}

func newBody(box spatialmath.AABB, logger logging.Logger) body {
	return body{logger: logger, box: box, element: collision.NewBoxElement(box, r3.Vector{})}
}

// Box returns the collision box relative to the controller position.
func (b *body) Box() spatialmath.AABB {
	return b.box
}

// Element returns the element registered by Attach.
func (b *body) Element() *collision.BoxElement {
	return b.element
}

func (b *body) attach(world *collision.Mesh, position r3.Vector) error {
	if world == nil {
		return errors.New("cannot attach to a nil collision world")
	}
	if b.world != nil {
		return errors.New("already attached to a collision world")
	}
	b.element.Position = position
	b.id = world.AddDynamicElement(b.element)
	b.world = world
	b.logger.Debugw("attached to collision world", "element", b.id, "position", position)
	return nil
}

// Detach removes the element from the world it was attached to.
func (b *body) Detach() error {
	if b.world == nil {
		return nil
	}
	err := b.world.RemoveElement(b.id)
	b.world = nil
	return err
}

func (b *body) move(position r3.Vector) {
	b.element.Position = position
	if b.world == nil {
		return
	}
	if err := b.world.UpdateDynamicElement(b.id); err != nil {
		b.logger.Warnw("failed to update element", "element", b.id, "error", err)
	}
}
