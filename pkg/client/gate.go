package client

import "github.com/Eco-nexion/econexion/internal/models"

// Screen identifies a navigable screen group member. Public screens are
// reachable without a session; everything else requires one.
type Screen string

const (
	ScreenHome     Screen = "home"
	ScreenLogin    Screen = "login"
	ScreenRegister Screen = "register"

	ScreenGeneratorDashboard Screen = "dashboard/generator"
	ScreenRecyclerDashboard  Screen = "dashboard/recycler"
	ScreenMarketplace        Screen = "marketplace"
	ScreenProfile            Screen = "profile"
)

func (s Screen) Public() bool {
	switch s {
	case ScreenHome, ScreenLogin, ScreenRegister:
		return true
	}
	return false
}

// DashboardFor returns the landing screen for a role.
func DashboardFor(role models.Role) Screen {
	if role == models.RoleRecycler {
		return ScreenRecyclerDashboard
	}
	return ScreenGeneratorDashboard
}

// Redirect decides whether the current screen is allowed for the session,
// and where to go otherwise. It is a pure function of the session snapshot
// and the screen, so callers re-evaluate it after every session change and
// every navigation event without risk of loops: an allowed screen always
// maps to itself.
func Redirect(session Session, current Screen) (Screen, bool) {
	if session.Authenticated() {
		if current.Public() {
			return DashboardFor(session.User.Role), true
		}
		return current, false
	}

	if !current.Public() {
		return ScreenLogin, true
	}
	return current, false
}
