package sql

import (
	"crypto/sha1"
	"fmt"
)

type migration struct {
	key   string
	query string
}

func migQuery(query string) migration {
	return migration{
		key:   fmt.Sprintf("%x", sha1.Sum([]byte(query)))[0:8],
		query: query,
	}
}

func migrations() []migration {
	var queries []migration

	// Policies
	queries = append(queries, migQuery("create table treasury_policies ("+
		"dao      varchar(64)                        not null,"+
		"document text                               not null,"+
		"updated  datetime default CURRENT_TIMESTAMP not null,"+
		"PRIMARY KEY (`dao`)"+
		");"))

	// Proposals
	queries = append(queries, migQuery("create table treasury_proposals ("+
		"id              integer primary key autoincrement,"+
		"dao             varchar(64)                        not null,"+
		"kind            varchar(32)                        not null,"+
		"status          varchar(20)                        not null,"+
		"description     text        default ''             not null,"+
		"proposer        varchar(64) default ''             not null,"+
		"proposed_policy text                               null,"+
		"submitted       datetime default CURRENT_TIMESTAMP not null"+
		");"))
	queries = append(queries, migQuery(`create index proposal_dao on treasury_proposals(dao);`))
	queries = append(queries, migQuery(`create index proposal_dao_status on treasury_proposals(dao, status);`))

	return queries
}
