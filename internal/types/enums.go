package types

type OS string

const (
	OSDarwin  OS = "darwin"
	OSLinux   OS = "linux"
	OSWindows OS = "windows"
)

type InstallMethod string

const (
	InstallMethodSystemPackageManager InstallMethod = "system_package_manager"
	InstallMethodRuntimeNative        InstallMethod = "runtime_native"
	InstallMethodStandalone           InstallMethod = "standalone"
	InstallMethodManagedStore         InstallMethod = "managed_store"
)

type Backend string

const (
	BackendPip    Backend = "pip"
	BackendBrew   Backend = "brew"
	BackendApt    Backend = "apt"
	BackendDnf    Backend = "dnf"
	BackendWinget Backend = "winget"
)

type VersionPolicy string

const (
	VersionPolicyLatest     VersionPolicy = "latest"
	VersionPolicyRestricted VersionPolicy = "restricted"
)

type Status string

const (
	StatusMissing    Status = "missing"
	StatusOutdated   Status = "outdated"
	StatusMatched    Status = "matched"
	StatusUpgraded   Status = "upgraded"
	StatusDowngraded Status = "downgraded"
	StatusLatest     Status = "latest"
	StatusFailed     Status = "failed"
)

type ActionKind string

const (
	ActionNone      ActionKind = "none"
	ActionInstall   ActionKind = "install"
	ActionUpgrade   ActionKind = "upgrade"
	ActionDowngrade ActionKind = "downgrade"
)

type Outcome string

const (
	OutcomeApplied   Outcome = "applied"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeBlocked   Outcome = "blocked"
	OutcomeFailed    Outcome = "failed"
)
