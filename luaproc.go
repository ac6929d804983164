package luaproc

// Version is stamped into the host's callback table at registration.
const Version = "1.2.0"

// ModulePrefix is prepended to a script's basename (extension stripped)
// to derive the name its chunk is registered under. The derivation is a
// pure function of the basename: two scripts sharing a basename in
// different directories collide. Known limitation, kept for parity with
// how hosts address procedural modules.
const ModulePrefix = "luaproc_"

// Names of the functions every procedural script must define.
const (
	FuncInit     = "Init"
	FuncNumNodes = "NumNodes"
	FuncGetNode  = "GetNode"
	FuncCleanup  = "Cleanup"
)

// DebugEnvVar, when set to a nonzero integer, makes the interpreter log
// its resolved module and dynamic-library search paths at startup.
const DebugEnvVar = "LUAPROC_DEBUG"
