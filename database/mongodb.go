package database

import (
	"context"
	"os"
	"time"
	"younv/utils"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const (
	MONGO_TIMEOUT                = 20 * time.Second
	COLLECTION_LEADS             = "leads"
	COLLECTION_TAGS              = "tags"
	COLLECTION_MEDICOS           = "medicos"
	COLLECTION_ESPECIALIDADES    = "especialidades"
	COLLECTION_PROCEDIMENTOS     = "procedimentos"
	COLLECTION_CLINICAS          = "clinicas"
	COLLECTION_USUARIOS_CLINICAS = "usuarios_clinicas"

	MEMORY_URI = "memory://"
)

// TenantCollections are the collections owned by a clinic. Clinics and the
// user association are global.
var TenantCollections = []string{
	COLLECTION_LEADS,
	COLLECTION_TAGS,
	COLLECTION_MEDICOS,
	COLLECTION_ESPECIALIDADES,
	COLLECTION_PROCEDIMENTOS,
}

func GetDB() string {
	environment := os.Getenv(utils.ENV)

	if environment == utils.ENV_RELEASE {
		return "production"
	}

	if environment == utils.ENV_HOMOLOG {
		return "homolog"
	}

	if environment == utils.ENV_DEVELOPMENT {
		return "development"
	}

	panic("[MongoDB] Invalid DB name")
}

// ConnectMongo opens a client for the whole process lifetime and checks the
// primary is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetTimeout(MONGO_TIMEOUT))
	if err != nil {
		return nil, errors.Wrap(err, "[MongoDB] connect")
	}

	pingCtx, cancel := context.WithTimeout(ctx, MONGO_TIMEOUT)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "[MongoDB] ping")
	}

	return client, nil
}
