package storage

import (
	"encoding/json"
	"errors"

	"github.com/NEAR-DevHub/treasury-membership/storage/datastore"
	"github.com/NEAR-DevHub/treasury-membership/storage/jsonfile"
	"github.com/NEAR-DevHub/treasury-membership/storage/sql"
)

func Load(jsonBytes []byte) (Provider, error) {

	loader := struct {
		Provider      string
		Configuration *json.RawMessage
	}{}

	err := json.Unmarshal(jsonBytes, &loader)
	if err != nil {
		return nil, err
	}

	switch loader.Provider {
	case jsonfile.ProviderKey:
		return jsonfile.FromJson(*loader.Configuration)
	case sql.ProviderKey:
		return sql.FromJson(*loader.Configuration)
	case datastore.ProviderKey:
		return datastore.FromJson(*loader.Configuration)
	}

	return nil, errors.New("unable to load storage provider '" + loader.Provider + "'")
}
