package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	planner "github.com/samclaus/squadplanner"
	"github.com/samclaus/squadplanner/squad"
	"go.uber.org/zap"
)

const idCookieName = "id"

type server struct {
	upgrader    websocket.Upgrader
	opts        Options
	sessions    map[uint32]*session
	names       map[string]struct{} // names of open sessions and those being opened
	sessionCtr  uint32
	sessionsMtx sync.RWMutex
}

type sessionInfo struct {
	ID      uint32 `json:"id"`
	Name    string `json:"name"`
	Members int32  `json:"members"`
}

func (s *server) HandleGetSessions(w http.ResponseWriter, r *http.Request) {
	s.sessionsMtx.RLock()
	infos := make([]sessionInfo, 0, len(s.sessions))
	for _, ss := range s.sessions {
		infos = append(infos, sessionInfo{ss.ID, ss.Name, ss.memberCount.Load()})
	}
	s.sessionsMtx.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(infos); err != nil {
		s.opts.Logger.Debug("Failed to write session list", zap.Error(err))
	}
}

// HandleJoinSession expects a "name" query parameter with the member's display
// name and a "session" query parameter, which should either be the ID of an
// open session or the special value "new" (together with a "session-name").
// On success the connection is upgraded to a WebSocket and handed off to the
// session, which serves it in other goroutines until either side closes it.
func (s *server) HandleJoinSession(w http.ResponseWriter, r *http.Request) {
	var (
		clientID   uuid.UUID
		respHeader http.Header
	)

	if ck, err := r.Cookie(idCookieName); err != nil {
		clientID = uuid.New()
		// The upgrade writes its own response, so the cookie has to travel in
		// the header handed to Upgrade rather than through w.
		respHeader = http.Header{}
		respHeader.Add("Set-Cookie", (&http.Cookie{
			Name:     idCookieName,
			Value:    clientID.String(),
			SameSite: http.SameSiteStrictMode,
			Secure:   true,
		}).String())
	} else if clientID, err = uuid.Parse(ck.Value); err != nil {
		http.Error(w, "Invalid client ID cookie", http.StatusBadRequest)
		return
	}

	sessionCode := r.URL.Query().Get("session")
	newSession := sessionCode == "new"
	memberName := r.URL.Query().Get("name")

	if !validName(memberName) {
		http.Error(w, "Must specify a member name with 'name' URL query parameter", http.StatusBadRequest)
		return
	}

	var ss *session

	if newSession {
		sessionName := r.URL.Query().Get("session-name")
		if !validName(sessionName) {
			http.Error(w, "Must specify a name for the session with 'session-name' URL query parameter", http.StatusBadRequest)
			return
		}

		// Two open sessions with one name would each restore the stored plan
		// and overwrite the other's saves.
		if !s.reserveName(sessionName) {
			http.Error(w, "A session with that name is already open", http.StatusConflict)
			return
		}

		var err error
		if ss, err = s.newSession(r.Context(), sessionName); err != nil {
			s.releaseName(sessionName)
			s.opts.Logger.Error("Failed to create session", zap.String("name", sessionName), zap.Error(err))
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
	} else {
		if id, err := strconv.ParseUint(sessionCode, 10, 32); err == nil {
			s.sessionsMtx.RLock()
			ss = s.sessions[uint32(id)]
			s.sessionsMtx.RUnlock()
		}
		if ss == nil {
			http.Error(w, "No such session", http.StatusNotFound)
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, respHeader)
	if err != nil {
		// No need to send an HTTP error reply because Upgrade already did. A
		// brand new session was never registered or started, so only its name
		// needs releasing.
		if newSession {
			s.releaseName(ss.Name)
		}
		s.opts.Logger.Debug("Failed to upgrade connection", zap.Error(err))
		return
	}

	if newSession {
		s.sessionsMtx.Lock()
		s.sessions[ss.ID] = ss
		s.sessionsMtx.Unlock()

		go func() {
			ss.processEventsUntilClosed()

			s.sessionsMtx.Lock()
			delete(s.sessions, ss.ID)
			delete(s.names, ss.Name)
			s.sessionsMtx.Unlock()
		}()
	}

	cli := &client{conn, clientID, memberName, ss, make(chan []byte, 100)}

	select {
	case ss.register <- cli:
	case <-ss.done:
		// The last member left while we were upgrading.
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "session closed"))
		conn.Close()
		return
	}

	// Start read/write in new goroutines so we can return from this HTTP handler
	// and let the request and response writer get cleaned up.
	go cli.readPump()
	go cli.writePump()
}

// newSession builds a session, restoring its plan from the store when one was
// saved under the same name. The session is not registered or started.
func (s *server) newSession(ctx context.Context, name string) (*session, error) {
	plan := squad.NewPlan(s.opts.Budget)
	active := s.opts.DefaultRole

	if s.opts.Store != nil {
		role, stored, found, err := s.opts.Store.LoadPlan(ctx, name)
		if err != nil {
			return nil, err
		}
		if found {
			plan, active = stored, role
		}
	}

	s.sessionsMtx.Lock()
	id := s.sessionCtr
	s.sessionCtr++
	s.sessionsMtx.Unlock()

	return newSession(id, name, plan, active, s.opts)
}

func (s *server) reserveName(name string) bool {
	s.sessionsMtx.Lock()
	defer s.sessionsMtx.Unlock()

	if _, taken := s.names[name]; taken {
		return false
	}
	s.names[name] = struct{}{}
	return true
}

func (s *server) releaseName(name string) {
	s.sessionsMtx.Lock()
	delete(s.names, name)
	s.sessionsMtx.Unlock()
}

func validName(name string) bool {
	return name != "" && len(name) <= maxNameLen
}

var _ planner.Refresher = (*session)(nil)
