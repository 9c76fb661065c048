// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package testing

import (
	gc "gopkg.in/check.v1"

	"github.com/juju/zaza/core/status"
)

// StatusYAML is the output of juju status for a small openstack model:
// keystone with two units, mysql with one, and keystone-hacluster as a
// subordinate of keystone.
var StatusYAML = `
model:
  name: openstack
  controller: lxd
  cloud: localhost
  region: localhost
  type: iaas
machines:
  "0":
    juju-status:
      current: started
      version: 3.4.2
    hostname: juju-4a1b2c-0
    dns-name: 10.5.0.10
    instance-id: juju-4a1b2c-0
    series: jammy
    base:
      name: ubuntu
      channel: "22.04"
  "1":
    juju-status:
      current: started
      version: 3.4.2
    hostname: juju-4a1b2c-1
    dns-name: 10.5.0.11
    instance-id: juju-4a1b2c-1
    series: jammy
  "2":
    juju-status:
      current: started
      version: 3.4.2
    hostname: juju-4a1b2c-2
    dns-name: 10.5.0.12
    instance-id: juju-4a1b2c-2
    series: focal
applications:
  keystone:
    charm: keystone
    charm-channel: 2023.2/stable
    series: jammy
    exposed: false
    application-status:
      current: active
      message: Unit is ready
    relations:
      ha:
      - keystone-hacluster
      shared-db:
      - mysql
    units:
      keystone/0:
        workload-status:
          current: active
          message: Unit is ready
        juju-status:
          current: idle
          version: 3.4.2
        leader: true
        machine: "0"
        public-address: 10.5.0.10
        subordinates:
          keystone-hacluster/0:
            workload-status:
              current: active
            juju-status:
              current: idle
      keystone/1:
        workload-status:
          current: active
          message: Unit is ready
        juju-status:
          current: idle
          version: 3.4.2
        machine: "1"
        public-address: 10.5.0.11
        subordinates:
          keystone-hacluster/1:
            workload-status:
              current: active
            juju-status:
              current: idle
  keystone-hacluster:
    charm: hacluster
    exposed: false
    application-status:
      current: active
    subordinate-to:
    - keystone
  mysql:
    charm: mysql-innodb-cluster
    series: focal
    exposed: false
    application-status:
      current: active
    units:
      mysql/0:
        workload-status:
          current: active
        juju-status:
          current: idle
        leader: true
        machine: "2"
        public-address: 10.5.0.12
`[1:]

// MustParseStatus decodes the given juju status yaml, failing the test
// if it cannot.
func MustParseStatus(c *gc.C, data string) status.FullStatus {
	result, err := status.ParseFullStatus([]byte(data))
	c.Assert(err, gc.IsNil)
	return result
}
