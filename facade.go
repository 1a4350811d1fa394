package resources

import (
	"fmt"

	resourcecommand "github.com/goliatone/go-resources/command"
	resourcequery "github.com/goliatone/go-resources/query"
)

type FacadeController interface {
	resourcecommand.MutatingController
	resourcequery.ReadingController
}

type Commands struct {
	Create *resourcecommand.CreateCommand
	Update *resourcecommand.UpdateCommand
	Delete *resourcecommand.DeleteCommand
}

type Queries struct {
	Get  *resourcequery.GetQuery
	List *resourcequery.ListQuery
}

// Facade exposes one controller as go-command commands and queries.
type Facade struct {
	controller FacadeController
	commands   Commands
	queries    Queries
}

func NewFacade(controller FacadeController) (*Facade, error) {
	if controller == nil {
		return nil, fmt.Errorf("resources: controller is required")
	}
	return &Facade{
		controller: controller,
		commands: Commands{
			Create: resourcecommand.NewCreateCommand(controller),
			Update: resourcecommand.NewUpdateCommand(controller),
			Delete: resourcecommand.NewDeleteCommand(controller),
		},
		queries: Queries{
			Get:  resourcequery.NewGetQuery(controller),
			List: resourcequery.NewListQuery(controller),
		},
	}, nil
}

func (f *Facade) Commands() Commands {
	if f == nil {
		return Commands{}
	}
	return f.commands
}

func (f *Facade) Queries() Queries {
	if f == nil {
		return Queries{}
	}
	return f.queries
}

func (f *Facade) Controller() FacadeController {
	if f == nil {
		return nil
	}
	return f.controller
}
