package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/edusuite/school-admin-web/action"
	"github.com/edusuite/school-admin-web/models"
)

// notificationActTable maps notification targets to platform API calls
var notificationActTable = struct {
	sendToUser action.Descriptor
	sendToAll  action.Descriptor
	sendToRole action.Descriptor
}{
	sendToUser: action.Descriptor{Name: "send-notification", Method: http.MethodPost, Path: "api/notifications", OnFailure: action.ReshowForm},
	sendToAll:  action.Descriptor{Name: "send-notification-all", Method: http.MethodPost, Path: "api/notifications/send-to-all", OnFailure: action.ReshowForm},
	sendToRole: action.Descriptor{Name: "send-notification-role", Method: http.MethodPost, Path: "api/notifications/send-to-role", OnFailure: action.ReshowForm},
}

// NotificationFormData backs the send-notification form
type NotificationFormData struct {
	Users   []models.User
	Target  string
	Title   string
	Content string
	RoleID  int
	UserID  int
	Error   string
}

// NotificationFormHandler shows the send-notification form
// (GET /admin/notifications)
func (s *Server) NotificationFormHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		form := NotificationFormData{Target: "all"}
		res := s.actions.Run(r.Context(), sess, userActTable.list, nil)
		if !s.guard(w, r, res) {
			return
		}
		if !res.Failed {
			if err := res.Decode(&form.Users); err != nil {
				log.Err(err).Msg("NotificationForm: could not decode users")
			}
		}

		s.renderAdminPage(w, r, "notifications", "Send Notification", "notification_form.html", form)
	}
}

// SendNotificationHandler dispatches a notification to its audience
// (POST /admin/notifications)
func (s *Server) SendNotificationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		form := NotificationFormData{
			Target:  r.FormValue("target"),
			Title:   r.FormValue("title"),
			Content: r.FormValue("content"),
			RoleID:  formInt(r, "roleId"),
			UserID:  formInt(r, "userId"),
		}

		reshow := func(errorMsg string) {
			form.Error = errorMsg
			usersRes := s.actions.Run(r.Context(), sess, userActTable.list, nil)
			if !usersRes.Failed {
				_ = usersRes.Decode(&form.Users)
			}
			s.renderAdminPage(w, r, "notifications", "Send Notification", "notification_form.html", form)
		}

		if form.Title == "" || form.Content == "" {
			reshow("Title and content are required")
			return
		}

		payload := models.Notification{
			Title:   form.Title,
			Content: form.Content,
			Date:    time.Now().UTC(),
			UserID:  form.UserID,
		}

		var res action.Result
		switch form.Target {
		case "all":
			payload.UserID = 0
			res = s.actions.Run(r.Context(), sess, notificationActTable.sendToAll, payload)
		case "role":
			if form.RoleID == 0 {
				reshow("Pick a role to notify")
				return
			}
			payload.UserID = 0
			res = s.actions.RunQuery(r.Context(), sess, notificationActTable.sendToRole, "roleId", strconv.Itoa(form.RoleID), payload)
		case "user":
			if form.UserID == 0 {
				reshow("Pick a user to notify")
				return
			}
			res = s.actions.Run(r.Context(), sess, notificationActTable.sendToUser, payload)
		default:
			reshow("Invalid notification target")
			return
		}

		if !s.guard(w, r, res) {
			return
		}
		if res.Failed {
			reshow(res.Flash)
			return
		}

		s.flashSuccess(w, r, RouteAdminNotifications, "Notification sent")
	}
}
