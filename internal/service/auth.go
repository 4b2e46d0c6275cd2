package service

import "hotel/internal/models"

func requireSession(sess *models.Session) error {
	if sess == nil {
		return ErrUnauthenticated
	}
	return nil
}

func requireRole(sess *models.Session, roles ...models.Role) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if !sess.HasRole(roles...) {
		return ErrForbidden
	}
	return nil
}
