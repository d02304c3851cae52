package enums

type Tab string

const (
	TabNormal  Tab = "normal"
	TabChannel Tab = "channel"
)
