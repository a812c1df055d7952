package datalake

// Data dictionary handed to the analyst agent so it can answer schema
// questions without an engine round trip.

type ColumnDoc struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

type TableDoc struct {
	TableName   string      `json:"table_name"`
	Description string      `json:"table_description"`
	Columns     []ColumnDoc `json:"columns"`
}

var dictionary = map[string]TableDoc{
	SavesTable: {
		TableName:   SavesTable,
		Description: "Latest save data: urls, titles and descriptions of content saved by users.",
		Columns: []ColumnDoc{
			{Name: "id", Type: "string", Description: "The id of the save."},
			{Name: "url", Type: "string", Description: "The url of the save."},
			{Name: "title", Type: "string", Description: "The title of the save."},
			{Name: "description", Type: "string", Description: "The description of the save."},
			{Name: "comments", Type: "string", Description: "The comments on the save."},
			{Name: "image", Type: "string", Description: "The image of the save."},
			{Name: "imagekey", Type: "string", Description: "The key of the image of the save."},
			{Name: "publisher", Type: "string", Description: "The publishing website of the save (ex. Instagram, YouTube)."},
			{Name: "boardids", Type: "array<string>", Description: "The ids of the boards the save is associated with."},
			{Name: "createdat", Type: "string", Description: "When the save was created."},
			{Name: "updatedat", Type: "string", Description: "When the save was last updated."},
			{Name: "username", Type: "string", Description: "The directory id of the user who saved the content."},
			{Name: "isarchived", Type: "boolean", Description: "Whether the save has been archived."},
		},
	},
	BoardsTable: {
		TableName:   BoardsTable,
		Description: "Latest board data: name, image and membership of each board.",
		Columns: []ColumnDoc{
			{Name: "id", Type: "string", Description: "The id of the board."},
			{Name: "name", Type: "string", Description: "The name of the board."},
			{Name: "boardimagesaveids", Type: "array<string>", Description: "The ids of the saves in the board."},
			{Name: "username", Type: "string", Description: "The directory id of the user who created the board."},
			{Name: "isarchived", Type: "boolean", Description: "Whether the board has been archived."},
			{Name: "createdat", Type: "string", Description: "When the board was created."},
			{Name: "updatedat", Type: "string", Description: "When the board was last updated."},
		},
	},
	EdgesTable: {
		TableName:   EdgesTable,
		Description: "Latest edge data linking saves to boards.",
		Columns: []ColumnDoc{
			{Name: "id", Type: "string", Description: "The id of the edge."},
			{Name: "saveid", Type: "string", Description: "The id of the save on the edge."},
			{Name: "boardid", Type: "string", Description: "The id of the board on the edge."},
			{Name: "createdat", Type: "string", Description: "When the edge was created."},
			{Name: "updatedat", Type: "string", Description: "When the edge was last updated."},
			{Name: "username", Type: "string", Description: "The directory id of the user who created the edge."},
			{Name: "isarchived", Type: "boolean", Description: "Whether the edge has been archived."},
		},
	},
}

func DescribeTable(name string) (TableDoc, bool) {
	doc, ok := dictionary[name]
	return doc, ok
}
