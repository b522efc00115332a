//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
)

// CredentialSchema describes a verifiable credential type known to the backend.
type CredentialSchema struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Origin        string   `json:"origin"`
	Additional    string   `json:"additional"`
	CredentialDID string   `json:"credentialDid"`
	Fields        []string `json:"fields"`
	Checklist     []string `json:"checklist"`
}

// CredentialGroup bundles several credential schemas under one name.
type CredentialGroup struct {
	Credentials      []CredentialSchema `json:"credentials"`
	CredentialString string             `json:"credentialString"`
	Name             string             `json:"name"`
	Origin           string             `json:"origin"`
	Additional       string             `json:"additional"`
}

// CredentialGroupUnion is either a single credential or a credential group.
type CredentialGroupUnion struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	IsGroup    bool     `json:"isGroup"`
	Attributes []string `json:"attributes"`
}

// AttributeRelation compares a credential attribute against a predicate value.
type AttributeRelation string

const (
	RelationLess         AttributeRelation = "LESS"
	RelationLessEqual    AttributeRelation = "LESS_EQUAL"
	RelationEqual        AttributeRelation = "EQUAL"
	RelationGreaterEqual AttributeRelation = "GREATER_EQUAL"
	RelationGreater      AttributeRelation = "GREATER"
)

// PredicateRequirement constrains a numeric or string attribute of a presented credential.
type PredicateRequirement struct {
	AttributeName  string            `json:"attributeName"`
	AttributeValue AttributeValue    `json:"attributeValue"`
	Relation       AttributeRelation `json:"relation"`
	ValueType      string            `json:"valueType"`
}

// AttributeRequirement restricts an attribute to an allowed set of values.
type AttributeRequirement struct {
	AttributeName string           `json:"attributeName"`
	Values        []AttributeValue `json:"values"`
}

// CredentialORConnection is one alternative set of credentials that grants access to a room.
type CredentialORConnection struct {
	Credentials           []CredentialGroupUnion `json:"credentials"`
	PredicateRequirements []PredicateRequirement `json:"predicateRequirements,omitempty"`
	AttributeRequirement  *AttributeRequirement  `json:"attributeRequirement,omitempty"`
}

// AttributeValue holds either a string or a number. It is encoded as the bare JSON value.
type AttributeValue struct {
	String *string
	Number *float64
}

// StringValue returns an AttributeValue holding s.
func StringValue(s string) AttributeValue { return AttributeValue{String: &s} }

// NumberValue returns an AttributeValue holding n.
func NumberValue(n float64) AttributeValue { return AttributeValue{Number: &n} }

// MarshalJSON implements json.Marshaler.
func (v AttributeValue) MarshalJSON() ([]byte, error) {
	switch {
	case v.String != nil:
		return json.Marshal(*v.String)
	case v.Number != nil:
		return []byte(strconv.FormatFloat(*v.Number, 'f', -1, 64)), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *AttributeValue) UnmarshalJSON(data []byte) error {
	*v = AttributeValue{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		v.String = &s
		return nil
	}
	var n float64
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return errors.New("attribute value must be a string or a number")
	}
	v.Number = &n
	return nil
}
