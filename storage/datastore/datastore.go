package datastore

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"cloud.google.com/go/datastore"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
)

const ProviderKey = "datastore"
const kindPolicy = "TreasuryPolicy"
const kindProposal = "TreasuryProposal"

type Provider struct {
	client    dataStoreClient
	ProjectID string `json:"projectId"`
}

func FromJson(data []byte) (*Provider, error) {
	p := &Provider{}
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	if err := p.Init(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Provider) Init() error {
	var err error
	p.client, err = datastore.NewClient(context.Background(), p.ProjectID,
		option.WithGRPCDialOption(grpc.WithReturnConnectionError()),
		option.WithGRPCDialOption(grpc.WithTimeout(time.Second*5)),
		option.WithGRPCDialOption(grpc.WithDisableRetry()))
	return err
}

func (p *Provider) Connect() error {
	if p.client == nil {
		return p.Init()
	}
	return nil
}

func (p *Provider) Close() error {
	if p.client == nil {
		return nil
	}
	return p.client.Close()
}

type policyStore struct {
	DaoID    string
	Document []byte `datastore:",noindex"`
	Updated  time.Time
}

func (s policyStore) dsID() *datastore.Key {
	return datastore.NameKey(kindPolicy, s.DaoID, nil)
}

type proposalStore struct {
	DaoID       string
	Kind        string
	Status      string
	Description string `datastore:",noindex"`
	Proposer    string
	Document    []byte `datastore:",noindex"`
	Submitted   time.Time
}

type dataStoreClient interface {
	io.Closer
	Get(ctx context.Context, key *datastore.Key, dst interface{}) (err error)
	Put(ctx context.Context, key *datastore.Key, src interface{}) (*datastore.Key, error)
	GetAll(ctx context.Context, q *datastore.Query, dst interface{}) (keys []*datastore.Key, err error)
}
