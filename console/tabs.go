package console

import "github.com/octabyte/bm-queue-console/enums"

// UIState is the console's only mutable view state.
type UIState struct {
	ActiveTab enums.Tab
}

func DefaultUIState() UIState {
	return UIState{ActiveTab: enums.TabNormal}
}

// ReduceTab returns state with tab active. Unknown tabs leave state unchanged.
func ReduceTab(state UIState, tab enums.Tab) UIState {
	switch tab {
	case enums.TabNormal, enums.TabChannel:
		state.ActiveTab = tab
	}
	return state
}

func panelFor(tab enums.Tab) string {
	if tab == enums.TabChannel {
		return IDTabCanal
	}
	return IDTabNormal
}
