package server

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/edusuite/school-admin-web/action"
	"github.com/edusuite/school-admin-web/models"
)

// relationshipActTable holds the family-relationship platform call
var relationshipActTable = struct {
	create action.Descriptor
}{
	create: action.Descriptor{Name: "create-relationship", Method: http.MethodPost, Path: "api/relationships/create", OnFailure: action.RedirectBack},
}

// RelationshipFormData backs the family-relationship form
type RelationshipFormData struct {
	Parents  []models.User
	Children []models.User
}

// RelationshipFormHandler shows the link-parent-to-student form
// (GET /admin/relationships/new)
func (s *Server) RelationshipFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		res := s.actions.Run(r.Context(), sess, userActTable.list, nil)
		if !s.guard(w, r, res) {
			return
		}

		form := RelationshipFormData{}
		if !res.Failed {
			var users []models.User
			if err := res.Decode(&users); err != nil {
				log.Err(err).Msg("RelationshipForm: could not decode users")
			}
			form.Parents = usersByRole(users, models.RoleParent)
			form.Children = usersByRole(users, models.RoleStudent)
		}

		s.renderAdminPage(w, r, "relationships", "Family Relationship", "relationship_form.html", form)
	}
}

// CreateRelationshipHandler links a parent to a student
// (POST /admin/relationships/new)
func (s *Server) CreateRelationshipHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		payload := models.Relationship{
			User1ID:          formInt(r, "parentId"),
			User2ID:          formInt(r, "childId"),
			RelationshipType: r.FormValue("relationshipType"),
		}
		if payload.User1ID == 0 || payload.User2ID == 0 {
			s.flashError(w, r, RouteAdminRelationshipNew, "Select a parent and a student")
			return
		}

		res := s.actions.Run(r.Context(), sess, relationshipActTable.create, payload)
		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			s.flashError(w, r, RouteAdminRelationshipNew, res.Flash)
			return
		}

		s.flashSuccess(w, r, RouteAdminRelationshipNew, "Relationship created")
	}
}
