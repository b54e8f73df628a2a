package app

import (
	"github.com/vk/paramgridgo/internal/registry"
	"github.com/vk/paramgridgo/modules/env_vars"
	"github.com/vk/paramgridgo/modules/http_client"
	"github.com/vk/paramgridgo/modules/http_request"
	"github.com/vk/paramgridgo/modules/print"
	"github.com/vk/paramgridgo/modules/socketio_request"
)

// coreModules is the definitive list of modules compiled into the
// paramgridgo binary.
var coreModules = []registry.Module{
	&env_vars.Module{},
	&print.Module{},
	&http_client.Module{},
	&http_request.Module{},
	&socketio_request.Module{},
}
