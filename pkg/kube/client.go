package kube

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/rancher/kubewarden-ui-sub002/pkg/labels"
	"github.com/sirupsen/logrus"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/restmapper"
	ctrl "sigs.k8s.io/controller-runtime"
)

// Kind names a custom resource type by API group and kind.
type Kind struct {
	Group string
	Kind  string
}

func (k Kind) String() string {
	return k.Kind + "." + k.Group
}

var (
	PolicyReport        = Kind{Group: "wgpolicyk8s.io", Kind: "PolicyReport"}
	ClusterPolicyReport = Kind{Group: "wgpolicyk8s.io", Kind: "ClusterPolicyReport"}
	VulnerabilityReport = Kind{Group: "storage.sbomscanner.kubewarden.io", Kind: "VulnerabilityReport"}
	FleetBundle         = Kind{Group: "fleet.cattle.io", Kind: "Bundle"}
)

// Source lists every object of a kind, across namespaces.
type Source interface {
	List(ctx context.Context, kind Kind) ([]unstructured.Unstructured, error)
}

// ListAll lists each kind from source. A kind that cannot be listed, for
// example because its CRD is not installed, is reported in the returned
// error while the others are still listed.
func ListAll(ctx context.Context, source Source, kinds ...Kind) (map[Kind][]unstructured.Unstructured, error) {
	var result *multierror.Error
	out := make(map[Kind][]unstructured.Unstructured, len(kinds))
	for _, kind := range kinds {
		items, err := source.List(ctx, kind)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("listing %s: %w", kind, err))
			continue
		}
		logrus.Debugf("found %d %s", len(items), kind)
		out[kind] = items
	}
	return out, result.ErrorOrNil()
}

// Client talks to a live cluster.
type Client struct {
	RestMapper       meta.RESTMapper
	DynamicInterface dynamic.Interface
	Clientset        kubernetes.Interface
}

// GetClient builds a Client from the ambient kubeconfig or in-cluster config.
func GetClient() (*Client, error) {
	config, err := ctrl.GetConfig()
	if err != nil {
		return nil, err
	}
	dynamicInterface, err := dynamic.NewForConfig(config)
	if err != nil {
		return nil, err
	}
	kube, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, err
	}
	groupResources, err := restmapper.GetAPIGroupResources(kube.Discovery())
	if err != nil {
		return nil, err
	}
	restMapper := restmapper.NewDiscoveryRESTMapper(groupResources)

	return &Client{
		RestMapper:       restMapper,
		DynamicInterface: dynamicInterface,
		Clientset:        kube,
	}, nil
}

func (c *Client) List(ctx context.Context, kind Kind) ([]unstructured.Unstructured, error) {
	mapping, err := c.RestMapper.RESTMapping(schema.GroupKind{Group: kind.Group, Kind: kind.Kind})
	if err != nil {
		return nil, err
	}
	list, err := c.DynamicInterface.Resource(mapping.Resource).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

// FindPolicyServerPod returns the first pod in namespace belonging to the
// policy server called name.
func (c *Client) FindPolicyServerPod(ctx context.Context, namespace, name string) (corev1.Pod, bool, error) {
	pods, err := c.Clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return corev1.Pod{}, false, fmt.Errorf("listing pods in %s: %w", namespace, err)
	}
	pod, found := labels.FindMatchingResource(pods.Items, name, func(p corev1.Pod) map[string]string {
		return p.Labels
	})
	return pod, found, nil
}

// FindPolicyServerDeployment returns the deployment in namespace running the
// policy server called name.
func (c *Client) FindPolicyServerDeployment(ctx context.Context, namespace, name string) (appsv1.Deployment, bool, error) {
	deployments, err := c.Clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return appsv1.Deployment{}, false, fmt.Errorf("listing deployments in %s: %w", namespace, err)
	}
	deployment, found := labels.FindMatchingResource(deployments.Items, name, func(d appsv1.Deployment) map[string]string {
		return d.Labels
	})
	return deployment, found, nil
}
