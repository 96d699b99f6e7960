package model

import "fmt"

// Body carries the collision objects attached to a joint
type Body struct {
	Name    string
	Objects []*Object
}

// AddObject attaches a placed geometry to the body. Object names are unique
// within a body.
func (b *Body) AddObject(obj *Object) error {
	for _, existing := range b.Objects {
		if existing.Name == obj.Name {
			return fmt.Errorf("object %q already attached to body %q", obj.Name, b.Name)
		}
	}
	b.Objects = append(b.Objects, obj)
	return nil
}
