package discovery

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsManagedResourceGlobalPrefix(t *testing.T) {
	m := NewFieldMapper()
	r := Resource{Service: "lambda", ResourceID: "aws-controltower-NotificationForwarder"}
	assert.True(t, m.IsManagedResource(r))
}

func TestIsManagedResourceServicePattern(t *testing.T) {
	m := NewFieldMapper()
	r := Resource{Service: "iam", ResourceID: "AWSServiceRoleForSupport"}
	assert.True(t, m.IsManagedResource(r))
}

func TestIsManagedResourceIAMPolicyArn(t *testing.T) {
	m := NewFieldMapper()
	r := Resource{Service: "iam", ResourceType: "Policy", ResourceID: "ReadOnlyAccess", ARN: "arn:aws:iam::aws:policy/ReadOnlyAccess"}
	assert.True(t, m.IsManagedResource(r))
}

func TestIsManagedResourceEC2DefaultVPC(t *testing.T) {
	m := NewFieldMapper()
	raw, _ := json.Marshal(map[string]any{"IsDefault": true})
	r := Resource{Service: "ec2", ResourceType: "VPC", ResourceID: "vpc-0123456789abcdef0", RawData: raw}
	assert.True(t, m.IsManagedResource(r))
}

func TestIsManagedResourceRoute53ReverseDNS(t *testing.T) {
	m := NewFieldMapper()
	r := Resource{Service: "route53", ResourceType: "HostedZone", ResourceID: "Z1234", Name: "2.0.192.in-addr.arpa."}
	assert.True(t, m.IsManagedResource(r))
}

func TestIsManagedResourceOrdinaryResourceNotManaged(t *testing.T) {
	m := NewFieldMapper()
	r := Resource{Service: "ec2", ResourceType: "Instance", ResourceID: "i-0123456789abcdef0"}
	assert.False(t, m.IsManagedResource(r))
}

func TestIsManagedResourceServiceWithoutPatternNeverFiltered(t *testing.T) {
	m := NewFieldMapper()
	r := Resource{Service: "logs", ResourceID: "aws-anything"}
	assert.False(t, m.IsManagedResource(r))
}
