package aurakit

import "sync"

type View string

const (
	ViewHome    = View("home")
	ViewPulse   = View("pulse")
	ViewAdmin   = View("admin")
	ViewChat    = View("chat")
	ViewProfile = View("profile")
	ViewUpload  = View("upload")
	ViewDetails = View("details")
	ViewAuth    = View("auth")
)

// Router is the view state machine. It starts at home in the loading state
// and does not guard any view itself.
type Router struct {
	mu      sync.RWMutex
	view    View
	loading bool

	selectedProfile string
	selectedPost    string
	activePeer      string
}

func NewRouter() *Router {
	return &Router{view: ViewHome, loading: true}
}

func (v *Router) Navigate(view View) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.view = view
}

func (v *Router) View() View {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.view
}

func (v *Router) SetLoading(loading bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = loading
}

func (v *Router) Loading() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.loading
}

func (v *Router) ShowProfile(id string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectedProfile = id
	v.view = ViewProfile
}

func (v *Router) ShowDetails(postID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.selectedPost = postID
	v.view = ViewDetails
}

func (v *Router) ShowChat(peerID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.activePeer = peerID
	v.view = ViewChat
}

func (v *Router) SelectedProfile() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selectedProfile
}

func (v *Router) SelectedPost() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.selectedPost
}

func (v *Router) ActivePeer() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.activePeer
}
