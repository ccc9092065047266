package aurakit

import "testing"

func TestRouterStartsAtHome(t *testing.T) {
	router := NewRouter()
	if router.View() != ViewHome || !router.Loading() {
		t.Fatalf("initial state = %s, loading %v", router.View(), router.Loading())
	}
	router.SetLoading(false)
	if router.Loading() {
		t.Fatalf("loading flag not cleared")
	}
}

func TestRouterDrillDown(t *testing.T) {
	router := NewRouter()

	router.ShowProfile("profile-1")
	if router.View() != ViewProfile || router.SelectedProfile() != "profile-1" {
		t.Fatalf("profile drill down = %s %s", router.View(), router.SelectedProfile())
	}

	router.ShowDetails("pin-1")
	if router.View() != ViewDetails || router.SelectedPost() != "pin-1" {
		t.Fatalf("details drill down = %s %s", router.View(), router.SelectedPost())
	}

	router.ShowChat("peer-1")
	if router.View() != ViewChat || router.ActivePeer() != "peer-1" {
		t.Fatalf("chat drill down = %s %s", router.View(), router.ActivePeer())
	}

	// The router itself never refuses a view.
	router.Navigate(ViewAdmin)
	if router.View() != ViewAdmin {
		t.Fatalf("view = %s", router.View())
	}
}
