package rowan

// MountRoot is the virtual parent of all mount points. It is never handed
// to the filesystem: expanding it enumerates mounts (drive letters on
// Windows, volumes on macOS, /proc/mounts entries on Linux) instead of
// scanning a directory.
const MountRoot = `\\?\`

// mountRootLabel is the display text for the MountRoot node.
const mountRootLabel = "Computer"
