package server

import (
	"github.com/nfrund/gameroom/internal/module"
	"github.com/nfrund/gameroom/internal/modules/chat"
	"github.com/nfrund/gameroom/internal/modules/game"
	"github.com/nfrund/gameroom/internal/modules/users"
)

// AppModules is the central list of application modules. The server
// iterates over this slice to register and boot each module; shutdown runs
// in reverse order.
var AppModules = []module.Module{
	game.New(),
	chat.New(),
	users.New(),
}
