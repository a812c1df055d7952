package datalake

// Lake tables served by the admin API. Column lists are explicit to
// keep payloads tight and ordered.

const (
	SavesTable  = "latest_entity_save"
	BoardsTable = "latest_entity_board"
	EdgesTable  = "latest_entity_edge"
)

var SaveColumns = []string{
	"id",
	"url",
	"title",
	"description",
	"comments",
	"image",
	"imagekey",
	"publisher",
	"boardids",
	"createdat",
	"updatedat",
	"username",
	"isarchived",
}

var BoardColumns = []string{
	"id",
	"name",
	"boardimagesaveids",
	"username",
	"isarchived",
	"createdat",
	"updatedat",
}

func NewSavesLister(runner Runner, counter Counter) *Lister {
	return &Lister{Table: SavesTable, Columns: SaveColumns, Runner: runner, Counter: counter}
}

func NewBoardsLister(runner Runner, counter Counter) *Lister {
	return &Lister{Table: BoardsTable, Columns: BoardColumns, Runner: runner, Counter: counter}
}
