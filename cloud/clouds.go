// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package cloud reads the cloud definitions the juju client keeps in
// clouds.yaml, and works out what kind of cloud a controller runs on.
package cloud

import (
	"context"
	"os"

	"github.com/juju/errors"
	"github.com/juju/loggo/v2"
	"gopkg.in/yaml.v2"

	"github.com/juju/zaza/juju/osenv"
)

var logger = loggo.GetLogger("zaza.cloud")

// DefaultProviderType is assumed for controllers whose cloud is not
// defined on this client.
const DefaultProviderType = "openstack"

// AuthType is the type of authentication used by a cloud.
type AuthType string

// Cloud is a cloud definition.
type Cloud struct {
	// Name of the cloud, taken from its key in clouds.yaml.
	Name string

	// Type is the provider type, as in "openstack" or "maas".
	Type string

	Description string
	AuthTypes   []AuthType
	Endpoint    string
	Regions     []Region

	// Config holds any other cloud attributes.
	Config map[string]interface{}
}

// Region is a cloud region.
type Region struct {
	Name     string
	Endpoint string
}

type cloudSet struct {
	Clouds map[string]*cloudYAML `yaml:"clouds"`
}

type cloudYAML struct {
	Type        string                 `yaml:"type"`
	Description string                 `yaml:"description,omitempty"`
	AuthTypes   []AuthType             `yaml:"auth-types,omitempty,flow"`
	Endpoint    string                 `yaml:"endpoint,omitempty"`
	Regions     yaml.MapSlice          `yaml:"regions,omitempty"`
	Config      map[string]interface{} `yaml:"config,omitempty"`
}

type regionYAML struct {
	Endpoint string `yaml:"endpoint,omitempty"`
}

// ParseCloudMetadata parses the contents of a clouds.yaml file. Regions
// keep the order they are written in.
func ParseCloudMetadata(data []byte) (map[string]Cloud, error) {
	var set cloudSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, errors.Annotate(err, "cannot unmarshal yaml cloud metadata")
	}
	clouds := make(map[string]Cloud, len(set.Clouds))
	for name, in := range set.Clouds {
		if in == nil {
			return nil, errors.NotValidf("empty definition for cloud %q", name)
		}
		cloud := Cloud{
			Name:        name,
			Type:        in.Type,
			Description: in.Description,
			AuthTypes:   in.AuthTypes,
			Endpoint:    in.Endpoint,
			Config:      in.Config,
		}
		for _, item := range in.Regions {
			regionName, _ := item.Key.(string)
			// Re-marshal the value so that it can be decoded into
			// a typed struct.
			raw, err := yaml.Marshal(item.Value)
			if err != nil {
				return nil, errors.Trace(err)
			}
			var r regionYAML
			if err := yaml.Unmarshal(raw, &r); err != nil {
				return nil, errors.Annotatef(err, "region %q of cloud %q", regionName, name)
			}
			cloud.Regions = append(cloud.Regions, Region{Name: regionName, Endpoint: r.Endpoint})
		}
		clouds[name] = cloud
	}
	return clouds, nil
}

// ParseCloudMetadataFile parses the clouds.yaml file at path. A missing
// file holds no clouds.
func ParseCloudMetadataFile(path string) (map[string]Cloud, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Debugf("no cloud definitions in %s", path)
		return nil, nil
	}
	if err != nil {
		return nil, errors.Trace(err)
	}
	clouds, err := ParseCloudMetadata(data)
	return clouds, errors.Annotatef(err, "parsing %s", path)
}

// PersonalCloudMetadata returns the clouds defined in the client's
// clouds.yaml.
func PersonalCloudMetadata() (map[string]Cloud, error) {
	return ParseCloudMetadataFile(osenv.JujuXDGDataHomePath("clouds.yaml"))
}

// CloudByName returns the named cloud from the client's clouds.yaml.
func CloudByName(name string) (Cloud, error) {
	clouds, err := PersonalCloudMetadata()
	if err != nil {
		return Cloud{}, errors.Trace(err)
	}
	cloud, ok := clouds[name]
	if !ok {
		return Cloud{}, errors.NotFoundf("cloud %q", name)
	}
	return cloud, nil
}

// ControllerCloudGetter returns the name of the cloud the current
// controller runs on, or "" if that cannot be known from this client.
type ControllerCloudGetter interface {
	ControllerCloud(ctx context.Context) (string, error)
}

// ProviderType returns the provider type of the cloud the controller
// runs on. A controller bootstrapped elsewhere, whose cloud this client
// does not know, is assumed to run on openstack.
func ProviderType(ctx context.Context, controller ControllerCloudGetter) (string, error) {
	name, err := controller.ControllerCloud(ctx)
	if err != nil {
		return "", errors.Annotate(err, "getting controller cloud")
	}
	if name == "" {
		logger.Debugf("controller cloud unknown, assuming %s", DefaultProviderType)
		return DefaultProviderType, nil
	}
	cloud, err := CloudByName(name)
	if err != nil {
		return "", errors.Trace(err)
	}
	return cloud.Type, nil
}
