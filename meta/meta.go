// meta/meta.go
package meta

// DEFAULT_MAX_ROUNDS is the round count of a RoundLimited game unless configured.
const DEFAULT_MAX_ROUNDS = 10

// MIN_ROUNDS and MAX_ROUNDS bound the configurable round count.
const MIN_ROUNDS = 5

const MAX_ROUNDS = 15

// ARCHIVE_LIMIT is how many finished games the archive keeps.
const ARCHIVE_LIMIT = 50

// UPDATE_BUFFER is the default capacity of the engine's update channel.
const UPDATE_BUFFER = 64

// MAX_SIM_ROUNDS caps a simulated game that somehow never ends.
const MAX_SIM_ROUNDS = 500
